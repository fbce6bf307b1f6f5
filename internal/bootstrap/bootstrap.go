package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"github.com/go-redis/redis/v8"

	vertexclient "github.com/GregMSThompson/stak-backend/internal/client/vertex"
	"github.com/GregMSThompson/stak-backend/internal/config"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	// optional backends, nil when not configured
	Vertex *vertexclient.Adapter
	Redis  *redis.Client
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if err = ResolveSecrets(applicationCtx, cfg); err != nil {
		return bs, err
	}
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	if cfg.VertexModel != "" {
		bs.Vertex, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
		if err != nil {
			return bs, err
		}
	}
	if cfg.RedisAddr != "" {
		bs.Redis, err = InitRedis(applicationCtx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return bs, err
		}
		bs.Log.Info("redis cache enabled", "addr", cfg.RedisAddr)
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Redis != nil {
		bs.Redis.Close()
	}
	if bs.Vertex != nil {
		bs.Vertex.Close()
	}
	if bs.Firestore != nil {
		bs.Firestore.Close()
	}
}

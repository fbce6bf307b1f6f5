package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/GregMSThompson/stak-backend/internal/bootstrap"
	finnhubclient "github.com/GregMSThompson/stak-backend/internal/client/finnhub"
	geminiclient "github.com/GregMSThompson/stak-backend/internal/client/gemini"
	rssclient "github.com/GregMSThompson/stak-backend/internal/client/rss"
	"github.com/GregMSThompson/stak-backend/internal/config"
	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/handlers"
	"github.com/GregMSThompson/stak-backend/internal/middleware"
	"github.com/GregMSThompson/stak-backend/internal/models"
	"github.com/GregMSThompson/stak-backend/internal/response"
	"github.com/GregMSThompson/stak-backend/internal/router"
	"github.com/GregMSThompson/stak-backend/internal/services"
	"github.com/GregMSThompson/stak-backend/internal/store"
	"github.com/GregMSThompson/stak-backend/pkg/ttlcache"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// newCache picks the shared Redis backend when one is configured.
func newCache[T any](rdb *redis.Client, prefix string) ttlcache.Cache[T] {
	if rdb != nil {
		return ttlcache.NewRedis[T](rdb, prefix)
	}
	return ttlcache.NewMemory[T]()
}

func main() {
	// bootstrap
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	if len(cfg.FinnhubKeys()) == 0 {
		bs.Log.Warn("no finnhub keys configured, market data will be unavailable")
	}

	// clients
	finnhub := finnhubclient.New(cfg.FinnhubKeys())
	rss := rssclient.New()
	gemini := geminiclient.New(cfg.GeminiModel, cfg.GeminiKeys())

	// gemini keys first, vertex last
	var generators []services.TextGenerator
	for _, g := range gemini.Generators() {
		generators = append(generators, g)
	}
	if bs.Vertex != nil {
		generators = append(generators, bs.Vertex)
	}
	if len(generators) == 0 {
		bs.Log.Warn("no text generators configured, serving fallback content")
	}

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	sstore := store.NewSwipeStore(bs.Firestore)
	tstore := store.NewTrendStore(bs.Firestore)

	// services
	simplifier := services.NewSimplifier(generators, cfg.GenRetryDelay)
	userv := services.NewUserService(ustore)
	swserv := services.NewSwipeService(sstore, ustore)
	nserv := services.NewNewsService(finnhub, rss, simplifier,
		newCache[[]dto.SimplifiedArticle](bs.Redis, "stak:"), cfg.NewsTTL)
	tserv := services.NewTrendService(tstore, finnhub, generators, cfg.GenRetryDelay,
		newCache[*models.TrendSet](bs.Redis, "stak:"), cfg.TrendTTL)
	iserv := services.NewIntelService(generators, cfg.GenRetryDelay,
		newCache[[]dto.IntelCard](bs.Redis, "stak:"), cfg.IntelTTL)
	stserv := services.NewStockService(finnhub,
		newCache[*dto.StockSnapshot](bs.Redis, "stak:"), cfg.StockTTL)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.UserSvc = userv
	deps.SwipeSvc = swserv
	deps.NewsSvc = nserv
	deps.TrendSvc = tserv
	deps.IntelSvc = iserv
	deps.StockSvc = stserv

	// router
	auth := middleware.NewMiddleware(bs.Firebase, rh)
	r := router.NewRouter(deps, auth, router.Options{
		ProjectID:   cfg.ProjectID,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		bs.Log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		bs.Log.Error("server shutdown failed", "error", err)
	}
}

package store

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/models"
)

type trendStore struct {
	client *firestore.Client
}

func NewTrendStore(client *firestore.Client) *trendStore {
	return &trendStore{client: client}
}

func (s *trendStore) doc(ticker string) *firestore.DocumentRef {
	return s.client.Collection("trend_cards").Doc(strings.ToUpper(ticker))
}

// Get returns the stored set regardless of expiry; callers check ExpiresAt.
func (s *trendStore) Get(ctx context.Context, ticker string) (*models.TrendSet, error) {
	doc, err := s.doc(ticker).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("trend cards not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get trend cards", err)
	}
	var set models.TrendSet
	if err := doc.DataTo(&set); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse trend cards", err)
	}
	return &set, nil
}

func (s *trendStore) Save(ctx context.Context, set *models.TrendSet) error {
	_, err := s.doc(set.Ticker).Set(ctx, set)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save trend cards", err)
	}
	return nil
}

package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/models"
)

type swipeStore struct {
	client *firestore.Client
}

func NewSwipeStore(client *firestore.Client) *swipeStore {
	return &swipeStore{client: client}
}

func (s *swipeStore) collection() *firestore.CollectionRef {
	return s.client.Collection("swipes")
}

func (s *swipeStore) Create(ctx context.Context, swipe *models.Swipe) error {
	_, err := s.collection().Doc(swipe.ID).Create(ctx, swipe)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to save swipe", err)
	}
	return nil
}

// ListByUser returns the user's swipes, newest first. Needs the (uid, timestamp desc) composite index.
func (s *swipeStore) ListByUser(ctx context.Context, uid string, limit int) ([]models.Swipe, error) {
	query := s.collection().Where("uid", "==", uid).OrderBy("timestamp", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	out := []models.Swipe{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list swipes", err)
		}
		var sw models.Swipe
		if err := doc.DataTo(&sw); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse swipe data", err)
		}
		out = append(out, sw)
	}
	return out, nil
}

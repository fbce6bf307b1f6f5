package store

import (
	"context"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/models"
)

type userStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{
		Client:     client,
		Collection: client.Collection("users"),
	}
}

func (us *userStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := us.Collection.Doc(user.UID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("user already exists")
		}
		return errs.NewDatabaseError("create", "failed to create user", err)
	}
	return nil
}

func (us *userStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var user models.User

	doc, err := us.Collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user", err)
	}
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}

	return &user, nil
}

// MergeUser writes the given top-level fields with merge semantics; concurrent
// writers are last-writer-wins.
func (us *userStore) MergeUser(ctx context.Context, uid string, fields map[string]any) error {
	fields["updatedAt"] = time.Now()
	_, err := us.Collection.Doc(uid).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update user", err)
	}
	return nil
}

// AppendStak adds brandID to the stak once and clears any earlier pass on it.
func (us *userStore) AppendStak(ctx context.Context, uid, brandID string) error {
	return us.updateLists(ctx, uid, "failed to add brand to stak", func(u *models.User) {
		if !slices.Contains(u.Stak, brandID) {
			u.Stak = append(u.Stak, brandID)
		}
		u.Passed = slices.DeleteFunc(u.Passed, func(p models.PassedBrand) bool { return p.BrandID == brandID })
	})
}

// AppendPassed records a pass once, keeping the first passedAt, and drops the
// brand from the stak.
func (us *userStore) AppendPassed(ctx context.Context, uid string, passed models.PassedBrand) error {
	return us.updateLists(ctx, uid, "failed to record passed brand", func(u *models.User) {
		if !slices.ContainsFunc(u.Passed, func(p models.PassedBrand) bool { return p.BrandID == passed.BrandID }) {
			u.Passed = append(u.Passed, passed)
		}
		u.Stak = slices.DeleteFunc(u.Stak, func(id string) bool { return id == passed.BrandID })
	})
}

// updateLists applies fn to the stored stak and passed lists in one
// transaction. A missing user document starts from empty lists.
func (us *userStore) updateLists(ctx context.Context, uid, msg string, fn func(*models.User)) error {
	ref := us.Collection.Doc(uid)
	err := us.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var user models.User
		doc, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			if err := doc.DataTo(&user); err != nil {
				return err
			}
		}

		fn(&user)
		if user.Stak == nil {
			user.Stak = []string{}
		}
		if user.Passed == nil {
			user.Passed = []models.PassedBrand{}
		}
		return tx.Set(ref, map[string]any{
			"uid":       uid,
			"stak":      user.Stak,
			"passed":    user.Passed,
			"updatedAt": time.Now(),
		}, firestore.MergeAll)
	})
	if err != nil {
		return errs.NewDatabaseError("update", msg, err)
	}
	return nil
}

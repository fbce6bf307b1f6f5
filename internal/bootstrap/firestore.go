package bootstrap

import (
	"context"
	"errors"
	"os"

	"cloud.google.com/go/firestore"
)

// InitFirestore opens the default database. The project ID may be omitted
// only when talking to the emulator.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
			return nil, errors.New("PROJECTID is required")
		}
		projectID = "stak-local"
	}
	return firestore.NewClient(ctx, projectID)
}

package bootstrap

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	"github.com/GregMSThompson/stak-backend/internal/config"
	"github.com/GregMSThompson/stak-backend/internal/secrets"
)

// ResolveSecrets replaces Secret Manager references in the key fields with
// their payloads. Plain values are left alone and no client is opened.
func ResolveSecrets(ctx context.Context, cfg *config.Config) error {
	fields := cfg.SecretFields()
	if !secrets.HasReferences(fields) {
		return nil
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("secret manager client: %w", err)
	}
	defer client.Close()

	return secrets.NewResolver(client).ResolveAll(ctx, fields)
}

package secrets

import (
	"context"
	"fmt"
	"regexp"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Reference format
// projects/{project}/secrets/{secret}[/versions/{version}]
var referencePattern = regexp.MustCompile(`^projects/[^/]+/secrets/[^/]+(/versions/[^/]+)?$`)

// accessor is the subset of *secretmanager.Client used to read secret payloads.
type accessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

type Resolver struct {
	client accessor
}

func NewResolver(client accessor) *Resolver {
	return &Resolver{client: client}
}

// IsReference reports whether value names a Secret Manager secret rather than
// holding a literal key.
func IsReference(value string) bool {
	return referencePattern.MatchString(value)
}

// Resolve returns the payload for a secret reference. Without an explicit
// version the latest one is read.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	name := ref
	if sub := referencePattern.FindStringSubmatch(ref); sub == nil {
		return "", fmt.Errorf("not a secret reference: %q", ref)
	} else if sub[1] == "" {
		name = ref + "/versions/latest"
	}

	res, err := r.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", fmt.Errorf("secret %s not found: %w", name, err)
		}
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return string(res.GetPayload().GetData()), nil
}

// ResolveAll replaces every reference in fields with its payload. Literal values
// and empty fields are left untouched.
func (r *Resolver) ResolveAll(ctx context.Context, fields []*string) error {
	for _, f := range fields {
		if f == nil || !IsReference(*f) {
			continue
		}
		v, err := r.Resolve(ctx, *f)
		if err != nil {
			return err
		}
		*f = v
	}
	return nil
}

// HasReferences reports whether any field needs resolving, so callers can skip
// creating a Secret Manager client.
func HasReferences(fields []*string) bool {
	for _, f := range fields {
		if f != nil && IsReference(*f) {
			return true
		}
	}
	return false
}

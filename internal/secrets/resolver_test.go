package secrets

import (
	"context"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type accessorStub struct {
	payloads map[string]string
	names    []string
}

func (s *accessorStub) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	s.names = append(s.names, req.Name)
	v, ok := s.payloads[req.Name]
	if !ok {
		return nil, status.Error(codes.NotFound, "missing")
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Name:    req.Name,
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(v)},
	}, nil
}

func TestIsReference(t *testing.T) {
	assert.True(t, IsReference("projects/stak/secrets/finnhub-key-1"))
	assert.True(t, IsReference("projects/stak/secrets/finnhub-key-1/versions/3"))
	assert.False(t, IsReference("c0ffee123"))
	assert.False(t, IsReference(""))
	assert.False(t, IsReference("projects/stak/secrets/"))
}

func TestResolveAllReplacesReferencesOnly(t *testing.T) {
	stub := &accessorStub{payloads: map[string]string{
		"projects/stak/secrets/finnhub-key-1/versions/latest": "fh-secret",
		"projects/stak/secrets/gemini-key-1/versions/2":       "gm-secret",
	}}
	r := NewResolver(stub)

	finnhub := "projects/stak/secrets/finnhub-key-1"
	gemini := "projects/stak/secrets/gemini-key-1/versions/2"
	literal := "plain-key"
	empty := ""

	fields := []*string{&finnhub, &gemini, &literal, &empty}
	require.True(t, HasReferences(fields))
	require.NoError(t, r.ResolveAll(context.Background(), fields))

	assert.Equal(t, "fh-secret", finnhub)
	assert.Equal(t, "gm-secret", gemini)
	assert.Equal(t, "plain-key", literal)
	assert.Equal(t, "", empty)
	assert.Len(t, stub.names, 2)
}

func TestResolveMissingSecret(t *testing.T) {
	r := NewResolver(&accessorStub{})

	_, err := r.Resolve(context.Background(), "projects/stak/secrets/absent")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHasReferencesLiteralOnly(t *testing.T) {
	a, b := "key-a", ""
	assert.False(t, HasReferences([]*string{&a, &b, nil}))
}

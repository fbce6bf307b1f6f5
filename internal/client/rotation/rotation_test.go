package rotation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/stak-backend/pkg/helpers"
)

// keyServer answers each key with a fixed status and records the call order.
type keyServer struct {
	mu       sync.Mutex
	statuses map[string]int
	calls    []string
}

func (k *keyServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-Api-Key")
	k.mu.Lock()
	k.calls = append(k.calls, key)
	status := k.statuses[key]
	k.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte(`{"key":"` + key + `"}`))
		return
	}
	_, _ = w.Write([]byte(`{"error":"nope"}`))
}

func builder(url string) BuildFunc {
	return func(ctx context.Context, key string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Api-Key", key)
		return req, nil
	}
}

type payload struct {
	Key string `json:"key"`
}

func TestFetchRotatesOnQuotaStatuses(t *testing.T) {
	ks := &keyServer{statuses: map[string]int{"a": http.StatusTooManyRequests, "b": http.StatusForbidden}}
	srv := httptest.NewServer(ks)
	defer srv.Close()

	var out payload
	err := Fetch(helpers.TestCtx(), srv.Client(), []string{"a", "b", "c"}, builder(srv.URL), &out)

	require.NoError(t, err)
	assert.Equal(t, "c", out.Key)
	assert.Equal(t, []string{"a", "b", "c"}, ks.calls)
}

func TestFetchStopsOnOtherFailure(t *testing.T) {
	ks := &keyServer{statuses: map[string]int{"a": http.StatusInternalServerError}}
	srv := httptest.NewServer(ks)
	defer srv.Close()

	var out payload
	err := Fetch(helpers.TestCtx(), srv.Client(), []string{"a", "b"}, builder(srv.URL), &out)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, []string{"a"}, ks.calls, "later keys must not be called after a terminal failure")
}

func TestFetchStopsOnBadRequestAfterRotation(t *testing.T) {
	ks := &keyServer{statuses: map[string]int{"a": http.StatusTooManyRequests, "b": http.StatusBadRequest}}
	srv := httptest.NewServer(ks)
	defer srv.Close()

	err := Fetch(helpers.TestCtx(), srv.Client(), []string{"a", "b", "c"}, builder(srv.URL), nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, []string{"a", "b"}, ks.calls)
}

func TestFetchAllKeysExhausted(t *testing.T) {
	ks := &keyServer{statuses: map[string]int{"a": http.StatusTooManyRequests, "b": http.StatusTooManyRequests}}
	srv := httptest.NewServer(ks)
	defer srv.Close()

	err := Fetch(helpers.TestCtx(), srv.Client(), []string{"a", "", "b"}, builder(srv.URL), nil)

	assert.ErrorIs(t, err, ErrKeysExhausted)
	assert.Equal(t, []string{"a", "b"}, ks.calls, "empty keys are skipped")
}

func TestFetchNoKeys(t *testing.T) {
	err := Fetch(helpers.TestCtx(), http.DefaultClient, []string{"", ""}, builder("http://unused.invalid"), nil)
	assert.ErrorIs(t, err, ErrNoKeys)

	err = Fetch(helpers.TestCtx(), http.DefaultClient, nil, builder("http://unused.invalid"), nil)
	assert.ErrorIs(t, err, ErrNoKeys)
}

type failingDoer struct{ calls int }

func (f *failingDoer) Do(*http.Request) (*http.Response, error) {
	f.calls++
	return nil, errors.New("connection reset")
}

func TestFetchTransportErrorIsTerminal(t *testing.T) {
	doer := &failingDoer{}
	err := Fetch(helpers.TestCtx(), doer, []string{"a", "b"}, builder("http://example.invalid"), nil)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeysExhausted)
	assert.Equal(t, 1, doer.calls)
}

func TestFetchBuildError(t *testing.T) {
	build := func(context.Context, string) (*http.Request, error) { return nil, errors.New("bad url") }
	err := Fetch(context.Background(), http.DefaultClient, []string{"a"}, build, nil)
	require.Error(t, err)
}

package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/strataroute/internal/app/upstream"
)

// NewUpstream starts a fake management API served by handler and
// returns a client pointed at it. The server is closed via t.Cleanup.
func NewUpstream(t *testing.T, handler http.Handler) *upstream.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := upstream.New(upstream.Config{
		BaseURL:       srv.URL,
		ManagementKey: "mk_test",
	})
	if err != nil {
		t.Fatalf("failed to build upstream client: %v", err)
	}
	return client
}

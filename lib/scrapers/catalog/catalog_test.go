package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"arenafeed/lib/scrapers/arena"
	"arenafeed/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestFetchFile(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/catalog")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/leaderboard-text.json" {
			w.Write([]byte(`{"full": {}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})

	contents, err := client.FetchFile(context.Background(), "leaderboard-text.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"full": {}}`, string(contents))

	_, err = client.FetchFile(context.Background(), "leaderboard-missing.json")
	require.ErrorIs(t, err, arena.ErrNetwork)
}

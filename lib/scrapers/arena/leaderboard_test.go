package arena

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"arenafeed/lib/telemetry"

	_ "embed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/leaderboard.html
var leaderboardFixture []byte

var fixtureEntries = []Entry{
	{Rank: 1, Model: "ModelA", Rating: 1200, Uncertainty: 4, Votes: 12345, Organization: "Alpha Lab"},
	{Rank: 2, Model: "ModelB", Rating: 1180, Uncertainty: 0, Votes: 9021, Organization: "Beta Inc"},
	{Rank: 3, Model: "ModelC", Rating: 1150, Uncertainty: 6.5, Votes: 777, Organization: "Gamma"},
}

func requireRankPermutation(t *testing.T, entries []Entry) {
	seen := map[int]bool{}
	for _, e := range entries {
		require.Greater(t, e.Rank, 0)
		require.LessOrEqual(t, e.Rank, len(entries))
		require.False(t, seen[e.Rank], "duplicate rank %d", e.Rank)
		seen[e.Rank] = true
	}
}

func TestParseLeaderboard(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/arena")
	defer cleanup()

	snapshot, err := ParseLeaderboard(context.Background(), leaderboardFixture)
	require.NoError(t, err)
	require.Empty(t, snapshot.Rejected)

	diff := cmp.Diff(fixtureEntries, snapshot.Entries)
	require.Empty(t, diff)
	requireRankPermutation(t, snapshot.Entries)
}

func TestParseLeaderboardNoTable(t *testing.T) {
	_, err := ParseLeaderboard(context.Background(), []byte(
		`<html><body><div>under maintenance</div></body></html>`,
	))
	require.ErrorIs(t, err, ErrParse)
}

func TestParseLeaderboardEmptyTable(t *testing.T) {
	_, err := ParseLeaderboard(context.Background(), []byte(
		`<html><body><table><tr><th>Model</th></tr></table></body></html>`,
	))
	require.ErrorIs(t, err, ErrParse)
}

func TestParseLeaderboardRejectsMalformedRows(t *testing.T) {
	page := []byte(`<html><body><table>
		<tr>
			<td>1</td><td>1</td>
			<td><a title="ModelA">Model A</a></td>
			<td>1200</td>
		</tr>
		<tr>
			<td>2</td><td>2</td>
			<td><a title="Broken">Broken</a></td>
			<td>n/a</td>
		</tr>
		<tr>
			<td>3</td><td>3</td>
			<td>no anchor here</td>
			<td>1100</td>
		</tr>
		<tr>
			<td>4</td><td>4</td>
			<td><a title="ModelB">Model B</a></td>
			<td>1050</td>
		</tr>
	</table></body></html>`)

	snapshot, err := ParseLeaderboard(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 2)
	require.Len(t, snapshot.Rejected, 2)
	for _, rejected := range snapshot.Rejected {
		require.ErrorIs(t, rejected.Err, ErrValidation)
	}

	require.Equal(t, "ModelA", snapshot.Entries[0].Model)
	require.Equal(t, "ModelB", snapshot.Entries[1].Model)
	requireRankPermutation(t, snapshot.Entries)
}

func TestSnapshotRoundTrip(t *testing.T) {
	snapshot, err := ParseLeaderboard(context.Background(), leaderboardFixture)
	require.NoError(t, err)

	encoded, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var decoded Snapshot
	err = json.Unmarshal(encoded, &decoded)
	require.NoError(t, err)

	diff := cmp.Diff(snapshot.Entries, decoded.Entries)
	require.Empty(t, diff)
}

func TestFetchLeaderboard(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/arena")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/leaderboard/text/overall" {
			w.Write(leaderboardFixture)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL, Retries: -1})
	require.NoError(t, err)

	snapshot, err := client.FetchLeaderboard(context.Background(), "/leaderboard/text/overall")
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 3)

	_, err = client.FetchLeaderboard(context.Background(), "/leaderboard/text/nonexistent")
	require.ErrorIs(t, err, ErrNetwork)
}

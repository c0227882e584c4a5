package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayne-enterprises/bidash/internal/dashboard/ui"
	"github.com/wayne-enterprises/bidash/internal/feed"
	"github.com/wayne-enterprises/bidash/internal/pageload"
)

var fullFeeds = map[feed.Slot]string{
	feed.SlotKPIs:         `{"total_revenue":"$1.2B","total_employees":45000,"avg_safety_score":7.8}`,
	feed.SlotRevenue:      `[{"Period":"Q1","Revenue":100},{"Period":"Q2","Revenue":150}]`,
	feed.SlotDistribution: `[{"name":"R&D","value":75},{"name":"Ops","value":25}]`,
	feed.SlotSecurity:     `{"headline":"Crime Down in Bristol","story":"Patrols doubled.","chart_data":[{"Month":"Jan","Bristol":12,"Park Row":30}]}`,
}

func newUpstream(t *testing.T, bodies map[feed.Slot]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for slot, body := range bodies {
		mux.HandleFunc(slot.Path(), func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := NewRootCommand()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSnapshotPrintsCardsAndFeedStatus(t *testing.T) {
	srv := newUpstream(t, fullFeeds)

	out, _, err := runCLI(t, "snapshot", "--api-base-url", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, ui.TitleTotalRevenue)
	require.Contains(t, out, "$1.2B")
	require.Contains(t, out, "45000")
	require.Contains(t, out, "Crime Down in Bristol")
	require.Contains(t, out, "2 periods")
	require.Contains(t, out, "2 segments")
	require.Contains(t, out, "failed: ")
}

func TestSnapshotJSON(t *testing.T) {
	srv := newUpstream(t, fullFeeds)

	out, _, err := runCLI(t, "snapshot", "--json", "--api-base-url", srv.URL)
	require.NoError(t, err)

	var snap pageload.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	require.NotEmpty(t, snap.ID)
	require.True(t, snap.Ready())
	require.Len(t, snap.Revenue, 2)
	require.Empty(t, snap.Divisions)
	require.Contains(t, snap.Failures, feed.SlotDivisions)
}

func TestRenderWritesDashboard(t *testing.T) {
	srv := newUpstream(t, fullFeeds)
	dest := filepath.Join(t.TempDir(), "dashboard.html")

	_, _, err := runCLI(t, "render", "--out", dest, "--api-base-url", srv.URL)
	require.NoError(t, err)

	html, err := os.ReadFile(dest)
	require.NoError(t, err)
	body := string(html)
	require.Contains(t, body, "Crime Down in Bristol")
	require.Contains(t, body, `class="slice"`)
	require.NotContains(t, body, `http-equiv="refresh"`)
	require.NotContains(t, body, ui.LoadingMessage)
}

func TestRenderWithoutGatingFeedsFails(t *testing.T) {
	srv := newUpstream(t, map[feed.Slot]string{
		feed.SlotRevenue: fullFeeds[feed.SlotRevenue],
	})

	out, stderr, err := runCLI(t, "render", "--api-base-url", srv.URL)
	require.Error(t, err)
	require.Contains(t, out, ui.LoadingMessage)
	require.Contains(t, stderr, "gating feeds unavailable")
}

func TestProbeRejectsUnknownFeed(t *testing.T) {
	_, _, err := runCLI(t, "probe", "--feed", "weather")
	require.ErrorIs(t, err, feed.ErrUnknownSlot)
}

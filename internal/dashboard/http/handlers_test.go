package dashboardhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayne-enterprises/bidash/internal/dashboard/ui"
	"github.com/wayne-enterprises/bidash/internal/feed"
	"github.com/wayne-enterprises/bidash/internal/pageload"
	"github.com/wayne-enterprises/bidash/internal/platform/httpx"
	"github.com/wayne-enterprises/bidash/internal/view"
)

const testPageID = "6f1c2a8e-1d4b-4c7e-9a53-2b1f0c9d8e7a"

type stubFetcher struct {
	bodies map[feed.Slot]string
	calls  atomic.Int32
}

func (s *stubFetcher) Fetch(ctx context.Context, slot feed.Slot) ([]byte, error) {
	s.calls.Add(1)
	body, ok := s.bodies[slot]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return []byte(body), nil
}

var gatingBodies = map[feed.Slot]string{
	feed.SlotKPIs:     `{"total_revenue":"$1.2B","total_employees":45000,"avg_safety_score":7.8}`,
	feed.SlotSecurity: `{"headline":"Crime Down in Bristol","story":"Patrols doubled.","chart_data":[]}`,
}

type testEnv struct {
	router  http.Handler
	store   *pageload.MemoryStore
	fetcher *stubFetcher
}

func newTestEnv(t *testing.T, bodies map[feed.Slot]string, cfg Config) testEnv {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)

	store := pageload.NewMemoryStore(time.Hour)
	fetcher := &stubFetcher{bodies: bodies}
	loader := pageload.NewLoader(fetcher, store, nil, nil, time.Second)
	if cfg.RenderWait == 0 {
		cfg.RenderWait = 2 * time.Second
	}
	cfg.Title = "Wayne Enterprises"
	cfg.Subtitle = "Business Intelligence Dashboard"

	handler := NewHandler(nil, store, loader, templates, ui.SVGCharts(), cfg)
	handler.WithIDGenerator(func() string { return testPageID })

	r := chi.NewRouter()
	handler.MountRoutes(r)
	return testEnv{router: r, store: store, fetcher: fetcher}
}

func (e testEnv) get(path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.7:41000"
	e.router.ServeHTTP(rr, req)
	return rr
}

func TestIndexRendersDashboardOnceGatingSlotsArrive(t *testing.T) {
	env := newTestEnv(t, gatingBodies, Config{})

	rr := env.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.NotContains(t, body, "Loading Dashboard Data...")
	assert.NotContains(t, body, "http-equiv")
	for _, want := range []string{"Total Revenue (YTD)", "$1.2B", "45000", "7.8", "Crime Down in Bristol", "Patrols doubled.", "Quarterly Revenue Trends", "Profit by Division", "Employee Distribution"} {
		assert.Contains(t, body, want)
	}
	assert.NotContains(t, body, `class="slice"`)
	assert.NotContains(t, body, "Data unavailable")
	assert.Equal(t, int32(5), env.fetcher.calls.Load())
}

func TestIndexShowsPlaceholderWithoutResponses(t *testing.T) {
	env := newTestEnv(t, nil, Config{LoadingRefresh: 1500 * time.Millisecond})

	rr := env.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.Contains(t, body, "Loading Dashboard Data...")
	assert.Contains(t, body, `content="2;url=/pages/`+testPageID+`"`)
	assert.NotContains(t, body, "Total Revenue (YTD)")
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestPageRerendersWithoutFetching(t *testing.T) {
	env := newTestEnv(t, map[feed.Slot]string{feed.SlotKPIs: gatingBodies[feed.SlotKPIs]}, Config{})
	require.Equal(t, http.StatusOK, env.get("/").Code)
	require.Equal(t, int32(5), env.fetcher.calls.Load())

	rr := env.get("/pages/" + testPageID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Loading Dashboard Data...")

	// The narrative arriving late moves the page from loading to loaded.
	require.NoError(t, env.store.Put(context.Background(), testPageID, feed.SlotSecurity, []byte(gatingBodies[feed.SlotSecurity])))
	rr = env.get("/pages/" + testPageID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Loading Dashboard Data...")
	assert.Contains(t, rr.Body.String(), "Crime Down in Bristol")
	assert.Equal(t, int32(5), env.fetcher.calls.Load())
}

func TestLoadingPageOutlivesTTLWhileRefreshing(t *testing.T) {
	var clock atomic.Int64
	clock.Store(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).UnixNano())
	env := newTestEnv(t, nil, Config{})
	env.store.WithNow(func() time.Time { return time.Unix(0, clock.Load()) })

	require.Equal(t, http.StatusOK, env.get("/").Code)
	for i := 0; i < 3; i++ {
		clock.Add(int64(50 * time.Minute))
		rr := env.get("/pages/" + testPageID)
		require.Equal(t, http.StatusOK, rr.Code, "refresh %d", i)
		assert.Contains(t, rr.Body.String(), "Loading Dashboard Data...")
	}

	clock.Add(int64(2 * time.Hour))
	assert.Equal(t, http.StatusNotFound, env.get("/pages/"+testPageID).Code)
}

func TestPageUnknownOrInvalid(t *testing.T) {
	env := newTestEnv(t, nil, Config{})
	assert.Equal(t, http.StatusNotFound, env.get("/pages/"+testPageID).Code)
	assert.Equal(t, http.StatusNotFound, env.get("/pages/not-a-uuid").Code)
	assert.Equal(t, int32(0), env.fetcher.calls.Load())
}

func TestPanelErrorsFlag(t *testing.T) {
	env := newTestEnv(t, gatingBodies, Config{ShowPanelErrors: true})
	rr := env.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, strings.Count(rr.Body.String(), "Data unavailable"))
}

func TestStateEndpoint(t *testing.T) {
	env := newTestEnv(t, gatingBodies, Config{})
	require.Equal(t, http.StatusOK, env.get("/").Code)

	rr := env.get("/pages/" + testPageID + "/state")
	require.Equal(t, http.StatusOK, rr.Code)
	var state struct {
		ID       string                  `json:"id"`
		Ready    bool                    `json:"ready"`
		KPIs     map[string]any          `json:"kpis"`
		Revenue  []feed.RevenuePoint     `json:"revenue"`
		Failures map[feed.Slot]string    `json:"failures"`
		Security *feed.SecurityNarrative `json:"security"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, testPageID, state.ID)
	assert.True(t, state.Ready)
	assert.Equal(t, "$1.2B", state.KPIs["total_revenue"])
	assert.Empty(t, state.Revenue)
	assert.Len(t, state.Failures, 3)
	assert.Equal(t, "Crime Down in Bristol", state.Security.Headline)
}

func TestStateErrors(t *testing.T) {
	env := newTestEnv(t, nil, Config{})

	rr := env.get("/pages/" + testPageID + "/state")
	require.Equal(t, http.StatusNotFound, rr.Code)
	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	assert.Equal(t, "Not Found", problem.Title)

	rr = env.get("/pages/nope/state")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
}

func TestCSVExport(t *testing.T) {
	env := newTestEnv(t, gatingBodies, Config{})
	require.Equal(t, http.StatusOK, env.get("/").Code)

	rr := env.get("/pages/" + testPageID + "/export.csv")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "dashboard-"+testPageID+".csv")
	body := rr.Body.String()
	assert.Contains(t, body, "Total Revenue (YTD),$1.2B")
	assert.Contains(t, body, "Headline,Crime Down in Bristol")
	assert.NotContains(t, body, "Period,Revenue")

	assert.Equal(t, http.StatusNotFound, env.get("/pages/"+testPageID+"x/export.csv").Code)
}

func TestIndexIsRateLimited(t *testing.T) {
	env := newTestEnv(t, gatingBodies, Config{RateLimit: 1})
	assert.Equal(t, http.StatusOK, env.get("/").Code)

	rr := env.get("/")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRefreshSeconds(t *testing.T) {
	assert.Equal(t, 1, refreshSeconds(0))
	assert.Equal(t, 1, refreshSeconds(200*time.Millisecond))
	assert.Equal(t, 2, refreshSeconds(2*time.Second))
	assert.Equal(t, 3, refreshSeconds(2100*time.Millisecond))
}

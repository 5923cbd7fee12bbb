package http

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiwei-tsao/state-stats-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/dataset"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/platform/metrics"
	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

type recordingNotifier struct {
	keys []string
	err  error
}

func (n *recordingNotifier) NotifySelection(ctx context.Context, stat model.RegionStat) error {
	n.keys = append(n.keys, stat.Key)
	return n.err
}

type stubFeatures struct {
	features []model.Feature
	err      error
}

func (s stubFeatures) Enabled() bool { return true }

func (s stubFeatures) Features(ctx context.Context) ([]model.Feature, error) {
	return s.features, s.err
}

type testEnv struct {
	engine   *gin.Engine
	notifier *recordingNotifier
	metrics  *metrics.Metrics
}

func newTestEnv(t *testing.T, features FeatureSource) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	records, err := dataset.Embedded()
	require.NoError(t, err)
	store, err := dashboard.NewStore(records)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &recordingNotifier{}
	m := metrics.New()
	svc, err := dashboard.NewService(store,
		dashboard.WithLogger(logger),
		dashboard.WithNotifier(notifier),
		dashboard.WithUnresolvedHook(m.AddUnresolved),
	)
	require.NoError(t, err)

	return testEnv{
		engine:   NewRouter(svc, features, m, logger, "https://dashboard.example.com"),
		notifier: notifier,
		metrics:  m,
	}
}

func (e testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func stateKeys(records []model.RegionStat) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Key
	}
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","records":50}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/region-stats", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListAll(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/region-stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[[]model.RegionStat](t, rec)
	require.Len(t, got, 50)
	assert.Equal(t, "AL", got[0].Key)
	assert.Equal(t, "WY", got[49].Key)
}

func TestListFiltered(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/region-stats/filtered?region=west&legalStatus=Banned", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"UT", "ID", "WY"}, stateKeys(decode[[]model.RegionStat](t, rec)))

	rec = env.do(http.MethodGet, "/api/region-stats/filtered?region=northeast&dataView=rate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"NJ", "NY", "CT"}, stateKeys(decode[[]model.RegionStat](t, rec))[:3])

	rec = env.do(http.MethodGet, "/api/region-stats/filtered?region=west&legalStatus=banned&sortBy=name", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ID", "UT", "WY"}, stateKeys(decode[[]model.RegionStat](t, rec)))

	rec = env.do(http.MethodGet, "/api/region-stats/filtered?searchTerm=%20%20", "")
	assert.Len(t, decode[[]model.RegionStat](t, rec), 50)
}

func TestValidationErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, target := range []string{
		"/api/region-stats/filtered?region=pacific",
		"/api/region-stats/filtered?legalStatus=maybe",
		"/api/region-stats/filtered?dataView=median",
		"/api/region-stats/filtered?sortBy=population",
		"/api/region-stats/table?sortDirection=sideways",
		"/api/region-stats/table?page=abc",
		"/api/region-stats/legend?dataView=x",
		"/api/region-stats/export?region=x",
	} {
		rec := env.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		body := decode[map[string]string](t, rec)
		assert.Contains(t, body["error"], "invalid", target)
	}

	rec := env.do(http.MethodPost, "/api/map/fills?region=x", `{"type":"FeatureCollection","features":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTable(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/region-stats/table?region=west&page=2&pageSize=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[model.Page](t, rec)
	assert.Equal(t, []string{"ID", "MT", "NV", "NM", "OR"}, stateKeys(page.Items))
	assert.Equal(t, 13, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/region-stats/export?region=south&legalStatus=banned&sortBy=name", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "region-stats.csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, dataset.CSVHeader, rows[0])
	assert.Equal(t, "AL", rows[1][0])
	assert.Equal(t, "WV", rows[9][0])
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/region-stats/summary?region=west", "")
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[model.SummaryStatistics](t, rec)
	assert.Equal(t, 844500, summary.TotalCount)
	assert.Equal(t, []string{"CA", "NY", "FL"}, stateKeys(summary.TopStates))
	assert.Equal(t, 26, summary.LegalStatus.Legal.Count)
	assert.Equal(t, 15, summary.LegalStatus.Banned.Count)
	assert.Equal(t, 9, summary.LegalStatus.Restricted.Count)
}

func TestLegend(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/api/region-stats/legend?dataView=percentage", "")
	require.Equal(t, http.StatusOK, rec.Code)

	legend := decode[model.Legend](t, rec)
	assert.Equal(t, model.ViewPercentage, legend.View)
	assert.Len(t, legend.Entries, 7)
}

func TestGetState(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/region-stats/ca", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "California", decode[model.RegionStat](t, rec).Name)

	rec = env.do(http.MethodGet, "/api/region-stats/ZZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"State not found"}`, rec.Body.String())
}

func TestSelectState(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/region-stats/tx/select", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "TX", decode[model.RegionStat](t, rec).Key)
	assert.Equal(t, []string{"TX"}, env.notifier.keys)

	rec = env.do(http.MethodPost, "/api/region-stats/ZZ/select", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.notifier.err = errors.New("notifier down")
	rec = env.do(http.MethodPost, "/api/region-stats/NY/select", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMapFillsFromBody(t *testing.T) {
	env := newTestEnv(t, nil)
	body := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"34","properties":{"postal":"NJ"}},
		{"type":"Feature","id":"36","properties":{"name":"New York"}},
		{"type":"Feature","id":"99","properties":{"name":"Atlantis"}},
		{"type":"Feature","id":"48","properties":{"STUSPS":"TX"}}
	]}`
	rec := env.do(http.MethodPost, "/api/map/fills?region=northeast&dataView=rate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[model.MapResponse](t, rec)
	require.Len(t, resp.Fills, 4)
	assert.Equal(t, model.ViewRate, resp.View)
	assert.Equal(t, 1, resp.Unresolved)

	assert.Equal(t, "NJ", resp.Fills[0].Key)
	assert.Equal(t, 4, resp.Fills[0].Bucket)
	assert.Equal(t, "NY", resp.Fills[1].Key)
	assert.Equal(t, 4, resp.Fills[1].Bucket)
	assert.False(t, resp.Fills[2].Resolved)
	assert.Equal(t, dashboard.NeutralColor.Hex, resp.Fills[2].Hex)
	assert.True(t, resp.Fills[3].Resolved)
	assert.Equal(t, dashboard.NeutralColor.Hex, resp.Fills[3].Hex)

	metricsRec := env.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), "statedash_map_unresolved_features_total 1")
	assert.Contains(t, metricsRec.Body.String(), `route="/api/map/fills"`)
}

func TestMapFillsFromBodyRejectsBadPayload(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodPost, "/api/map/fills", `{"type":"Polygon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/map/fills", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapFillsFromSource(t *testing.T) {
	rec := newTestEnv(t, nil).do(http.MethodGet, "/api/map/fills", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	source := stubFeatures{features: []model.Feature{
		{ID: "06", Properties: map[string]any{"name": "California"}},
	}}
	rec = newTestEnv(t, source).do(http.MethodGet, "/api/map/fills?dataView=total", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[model.MapResponse](t, rec)
	require.Len(t, resp.Fills, 1)
	assert.Equal(t, "CA", resp.Fills[0].Key)
	assert.Equal(t, 4, resp.Fills[0].Bucket)

	rec = newTestEnv(t, stubFeatures{err: errors.New("timeout")}).do(http.MethodGet, "/api/map/fills", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hangovr/internal/controllers"
	"hangovr/internal/models"
	"hangovr/internal/services"
	"hangovr/internal/structures"
	"hangovr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	svc     *services.HangoverService
	metrics *testutil.MockMetrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conf := &structures.Config{
		Population: structures.PopulationConfig{Seed: 5},
		Session:    structures.SessionConfig{TTL: time.Hour},
	}
	logger := &testutil.MockLogger{}
	random := services.NewRandomSource(conf.Population.Seed)
	svc := services.NewHangoverService(conf, services.NewPopulationStore(), services.NewSessionStore(conf),
		services.NewRankingEngine(random, conf), services.NewPopulationGenerator(random), logger)
	svc.SeedPopulation(500)

	metrics := &testutil.MockMetrics{}
	ac := controllers.NewApiController(logger, svc, testutil.NewMockCache(), metrics)
	handler := NewHandler(controllers.NewHealthController(svc), conf, logger, InitRoutes(ac), metrics)
	return &testServer{handler: handler, svc: svc, metrics: metrics}
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestInitRoutes_RegistersRoutes(t *testing.T) {
	ts := newTestServer(t)
	ac := controllers.NewApiController(&testutil.MockLogger{}, ts.svc, testutil.NewMockCache(), ts.metrics)

	routes := InitRoutes(ac).GetRoutes()
	urls := make(map[string][]string)
	for _, r := range routes {
		for m := range r.Methods {
			urls[r.Url] = append(urls[r.Url], m)
		}
	}

	require.Len(t, routes, 5)
	assert.ElementsMatch(t, []string{http.MethodPost, http.MethodDelete}, urls["/session"])
	assert.Equal(t, []string{http.MethodPost}, urls["/step1"])
	assert.Equal(t, []string{http.MethodPost}, urls["/step2"])
	assert.Equal(t, []string{http.MethodPost}, urls["/step3"])
	assert.Equal(t, []string{http.MethodGet}, urls["/result"])
}

func TestHandler_FullIntake(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodPost, "/session", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		Session models.RecordID `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	s := "?s=" + string(created.Session)

	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodPost, "/step1"+s, `{"severity":60}`).Code)
	assert.Equal(t, http.StatusConflict, ts.do(http.MethodGet, "/result"+s, "").Code)
	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodPost, "/step2"+s, `{"latitude":100,"longitude":45,"age":40,"sex":"female"}`).Code)
	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodPost, "/step3"+s, `{"duration":5,"drinks":6,"waters":3}`).Code)

	rr = ts.do(http.MethodGet, "/result"+s, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var res services.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.GreaterOrEqual(t, res.Percentile, 0.0)
	assert.LessOrEqual(t, res.Percentile, 100.0)
	assert.GreaterOrEqual(t, res.Rank, 1)
	assert.Empty(t, res.Sanitized)

	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, "/session"+s, "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/result"+s, "").Code)
	assert.Equal(t, 8, ts.metrics.Requests)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusMethodNotAllowed, ts.do(http.MethodGet, "/step1", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, ts.do(http.MethodPut, "/session", "").Code)
}

func TestHandler_Health(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"population":500`)
	assert.Equal(t, 0, ts.metrics.Requests)
}

func TestHandler_MetricsDisabled(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/metrics", "").Code)
}

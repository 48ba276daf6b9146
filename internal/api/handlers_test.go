package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/job-radar/internal/ingest"
	"github.com/job-radar/internal/models"
	"github.com/job-radar/internal/storage"
	"github.com/job-radar/internal/types"
)

type fakePostings struct {
	gotFilter storage.ListFilter
	jobs      []*models.Posting
	total     int
	err       error
}

func (f *fakePostings) List(_ context.Context, filter storage.ListFilter) ([]*models.Posting, int, error) {
	f.gotFilter = filter
	return f.jobs, f.total, f.err
}

type fakeSources struct {
	registered  []models.Source
	deactivated []string
	all         []models.Source
	registerErr error
	deactErr    error
}

func (f *fakeSources) Register(_ context.Context, provider types.Provider, token, displayName string) error {
	f.registered = append(f.registered, models.Source{Provider: provider, Token: token, DisplayName: displayName})
	return f.registerErr
}

func (f *fakeSources) Deactivate(_ context.Context, provider types.Provider, token string) error {
	f.deactivated = append(f.deactivated, string(provider)+"/"+token)
	return f.deactErr
}

func (f *fakeSources) ListAll(_ context.Context) ([]models.Source, error) {
	return f.all, nil
}

type fakeStatus struct {
	gotThreshold time.Duration
	statuses     []models.ProviderStatus
}

func (f *fakeStatus) Status(_ context.Context, threshold time.Duration) ([]models.ProviderStatus, error) {
	f.gotThreshold = threshold
	return f.statuses, nil
}

type fakeRunner struct {
	ranProvider  []types.Provider
	ranAll       int
	providerErr  error
	allErr       error
	resultByProv map[types.Provider]ingest.Result
}

func (f *fakeRunner) RunProvider(_ context.Context, provider types.Provider) (ingest.Result, error) {
	f.ranProvider = append(f.ranProvider, provider)
	return f.resultByProv[provider], f.providerErr
}

func (f *fakeRunner) RunAll(_ context.Context) ([]ingest.Result, error) {
	f.ranAll++
	return []ingest.Result{{Provider: types.ProviderGreenhouse, Fetched: 3, Inserted: 1}}, f.allErr
}

type testEnv struct {
	server   *Server
	postings *fakePostings
	sources  *fakeSources
	status   *fakeStatus
	runner   *fakeRunner
}

func newTestEnv(cronSecret string) *testEnv {
	env := &testEnv{
		postings: &fakePostings{},
		sources:  &fakeSources{},
		status:   &fakeStatus{},
		runner:   &fakeRunner{resultByProv: map[types.Provider]ingest.Result{}},
	}
	env.server = NewServer(&ServerConfig{
		Host:       "127.0.0.1",
		Port:       "0",
		CronSecret: cronSecret,
		StaleAfter: 12 * time.Hour,
	}, env.postings, env.sources, env.status, env.runner)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv("")
	rec := env.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestListJobsFilterParsing(t *testing.T) {
	env := newTestEnv("")
	env.postings.total = 7

	rec := env.do(t, "GET", "/api/jobs?max_age_days=30&q=engineer&category=software&us_only=1&limit=10&offset=20", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := env.postings.gotFilter
	assert.Equal(t, 30, got.MaxAgeDays)
	assert.Equal(t, "engineer", got.Query)
	assert.Equal(t, "software", got.Category)
	assert.True(t, got.USOnly)
	assert.Equal(t, 10, got.Limit)
	assert.Equal(t, 20, got.Offset)

	body := decode(t, rec)
	assert.Equal(t, float64(7), body["total"])
}

func TestListJobsRejectsBadParams(t *testing.T) {
	env := newTestEnv("")
	for _, path := range []string{
		"/api/jobs?max_age_days=abc",
		"/api/jobs?limit=0",
		"/api/jobs?offset=-1",
	} {
		rec := env.do(t, "GET", path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestListJobsCapsLimit(t *testing.T) {
	env := newTestEnv("")
	env.do(t, "GET", "/api/jobs?limit=9999", "")
	assert.Equal(t, maxJobsLimit, env.postings.gotFilter.Limit)
}

func TestRegisterSourceExplicit(t *testing.T) {
	env := newTestEnv("")
	rec := env.do(t, "POST", "/api/sources", `{"provider":"greenhouse","token":"stripe","display_name":"Stripe"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.sources.registered, 1)
	assert.Equal(t, types.ProviderGreenhouse, env.sources.registered[0].Provider)
	assert.Equal(t, "stripe", env.sources.registered[0].Token)
	assert.Equal(t, "Stripe", env.sources.registered[0].DisplayName)
}

func TestRegisterSourceFromURL(t *testing.T) {
	env := newTestEnv("")
	rec := env.do(t, "POST", "/api/sources", `{"url":"https://jobs.lever.co/notion"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.sources.registered, 1)
	assert.Equal(t, types.ProviderLever, env.sources.registered[0].Provider)
	assert.Equal(t, "notion", env.sources.registered[0].Token)
	assert.Equal(t, "Notion", env.sources.registered[0].DisplayName)
}

func TestRegisterSourceUnrecognizedURL(t *testing.T) {
	env := newTestEnv("")
	rec := env.do(t, "POST", "/api/sources", `{"url":"https://example.com/careers"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, env.sources.registered)
}

func TestRegisterSourceUnknownProvider(t *testing.T) {
	env := newTestEnv("")
	rec := env.do(t, "POST", "/api/sources", `{"provider":"taleo","token":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectSourceDryRun(t *testing.T) {
	env := newTestEnv("")
	rec := env.do(t, "POST", "/api/sources/detect", `{"url":"https://boards.greenhouse.io/stripe"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "greenhouse", body["provider"])
	assert.Equal(t, "stripe", body["token"])
	assert.Empty(t, env.sources.registered, "detect must not persist")
}

func TestDeactivateSource(t *testing.T) {
	env := newTestEnv("")
	rec := env.do(t, "DELETE", "/api/sources/lever/notion", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"lever/notion"}, env.sources.deactivated)
}

func TestDeactivateSourceEscapedWorkdayToken(t *testing.T) {
	env := newTestEnv("")
	rec := env.do(t, "DELETE", "/api/sources/workday/https%3A%2F%2Fnvidia.wd5.myworkdayjobs.com%2FNVIDIA", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"workday/https://nvidia.wd5.myworkdayjobs.com/NVIDIA"}, env.sources.deactivated)
}

func TestDeactivateSourceNotFound(t *testing.T) {
	env := newTestEnv("")
	env.sources.deactErr = storage.ErrNotFound

	rec := env.do(t, "DELETE", "/api/sources/lever/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunProviderRequiresCronKey(t *testing.T) {
	env := newTestEnv("s3cret")

	rec := env.do(t, "POST", "/api/run/greenhouse", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, env.runner.ranProvider)

	req := httptest.NewRequest("POST", "/api/run/greenhouse", nil)
	req.Header.Set("X-Cron-Key", "s3cret")
	rec2 := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, []types.Provider{types.ProviderGreenhouse}, env.runner.ranProvider)
}

func TestRunProviderKeyViaQuery(t *testing.T) {
	env := newTestEnv("s3cret")
	rec := env.do(t, "POST", "/api/run/workday?key=s3cret", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunAllReportsPartialFailure(t *testing.T) {
	env := newTestEnv("")
	env.runner.allErr = errors.New("workday: tenant offline")

	rec := env.do(t, "POST", "/api/run", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Contains(t, body, "results")
	assert.Contains(t, body["error"], "workday")
	assert.Equal(t, 1, env.runner.ranAll)
}

func TestStatusThresholdOverride(t *testing.T) {
	env := newTestEnv("")
	env.status.statuses = []models.ProviderStatus{
		{Provider: types.ProviderGreenhouse, IsFresh: true},
		{Provider: types.ProviderWorkday, IsFresh: false},
	}

	rec := env.do(t, "GET", "/api/status?threshold_minutes=120", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2*time.Hour, env.status.gotThreshold)

	body := decode(t, rec)
	assert.Equal(t, false, body["ok"], "one stale provider flips the aggregate")
	assert.Equal(t, float64(120), body["threshold_minutes"])
}

func TestStatusDefaultThreshold(t *testing.T) {
	env := newTestEnv("")
	rec := env.do(t, "GET", "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 12*time.Hour, env.status.gotThreshold)
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/database"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/scheduler"
	testingpkg "github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
	err  error
	runs int
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Run() error {
	j.runs++
	return j.err
}

func newSystemRouter(t *testing.T, jobs JobRunner) (http.Handler, *SystemHandlers, []*database.DB) {
	t.Helper()

	ledgerDB, _ := testingpkg.NewTestDB(t, "ledger")
	cacheDB, _ := testingpkg.NewTestDB(t, "cache")
	dbs := []*database.DB{ledgerDB, cacheDB}

	h := NewSystemHandlers(zerolog.Nop(), t.TempDir(), append(dbs, nil), jobs)
	h.systemStats = func() (float64, float64) { return 12.5, 40 }

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, h, dbs
}

func TestSystemHandlers_Status(t *testing.T) {
	router, _, _ := newSystemRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/system/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, map[string]string{"ledger": "ok", "cache": "ok"}, resp.Databases)
	assert.Equal(t, 12.5, resp.CPUPercent)
	assert.Equal(t, 40.0, resp.MemoryPercent)
	assert.NotEmpty(t, resp.LastChecked)
}

func TestSystemHandlers_StatusDegradedWhenDatabaseClosed(t *testing.T) {
	router, _, dbs := newSystemRouter(t, nil)
	require.NoError(t, dbs[1].Close())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/system/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "ok", resp.Databases["ledger"])
	assert.Equal(t, "unreachable", resp.Databases["cache"])
}

func TestSystemHandlers_DatabaseStats(t *testing.T) {
	router, _, _ := newSystemRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/system/databases", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DatabaseStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Databases, 2)
	assert.Equal(t, "ledger", resp.Databases[0].Name)
	assert.Equal(t, "ledger", resp.Databases[0].Profile)
	assert.Equal(t, "cache", resp.Databases[1].Profile)
	assert.Greater(t, resp.TotalSizeMB, 0.0)
}

func TestSystemHandlers_Jobs(t *testing.T) {
	ok := &stubJob{name: "refresh_prices"}
	failing := &stubJob{name: "cache_cleanup", err: errors.New("disk full")}
	sched := scheduler.New(zerolog.Nop())
	require.NoError(t, sched.Register(ok, "0 */15 * * * *"))
	require.NoError(t, sched.Register(failing, ""))
	router, _, _ := newSystemRouter(t, sched)

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Jobs []scheduler.JobStatus `json:"jobs"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Jobs, 2)
		assert.Equal(t, "cache_cleanup", resp.Jobs[0].Name)
		assert.Empty(t, resp.Jobs[0].Schedule)
		assert.Equal(t, "refresh_prices", resp.Jobs[1].Name)
		assert.Equal(t, "0 */15 * * * *", resp.Jobs[1].Schedule)
	})

	t.Run("trigger", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/refresh_prices", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, ok.runs)
	})

	t.Run("failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/cache_cleanup", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "disk full")

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/", nil))
		assert.Contains(t, rec.Body.String(), `"last_error":"disk full"`)
	})

	t.Run("unknown", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

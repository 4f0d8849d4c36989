package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhelper/student-helper-bot/internal/application/query"
	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/scheduler"
	"github.com/studyhelper/student-helper-bot/internal/interface/http/handlers"
)

type nopBackend struct{}

func (nopBackend) Name() string { return "nop" }
func (nopBackend) Load(context.Context) ([]byte, error) {
	return nil, shared.NewDomainError("store", "Load", shared.ErrNotFound, "empty")
}
func (nopBackend) Save(context.Context, []byte) error { return nil }

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.Local)
	store := persistence.NewStore(nopBackend{})
	require.NoError(t, store.Mutate(context.Background(), func(rec *student.Record) error {
		rec.AddGrade("Math", 9)
		rec.AddGrade("Art", 7)
		rec.AddReminder(reminder.New("r1", "read", reminder.ParseTimePhrase("in 5 minutes", now), now))
		done := reminder.New("r2", "write", reminder.ParseTimePhrase("in 1 hour", now), now)
		done.Notified = true
		rec.AddReminder(done)
		rec.AddGoal(student.NewGoal("g1", "sleep more", now))
		return nil
	}))

	return NewServer(cfg, Dependencies{
		Progress:  query.NewGetProgressHandler(store),
		Reminders: query.NewListRemindersHandler(store),
		Goals:     query.NewListGoalsHandler(store),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("metrics"))
		}),
	})
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body JSONResponse
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestServer_Progress(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec, body := get(t, s, "/api/v1/progress")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	data := body.Data.(map[string]any)
	assert.Equal(t, 8.0, data["overall_cgpa"])
	assert.Equal(t, 2.0, data["total_subjects"])
	subjects := data["subjects"].([]any)
	assert.Equal(t, "Art", subjects[0].(map[string]any)["name"])
	assert.Equal(t, "excellent", subjects[1].(map[string]any)["tier"])
}

func TestServer_Reminders(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	_, body := get(t, s, "/api/v1/reminders")
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Meta.TotalCount)

	_, body = get(t, s, "/api/v1/reminders?pending=true")
	items := body.Data.([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "pending", items[0].(map[string]any)["status"])

	rec, body := get(t, s, "/api/v1/reminders?pending=maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_parameter", body.Error.Code)
}

func TestServer_GoalsHealthMetrics(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	_, body := get(t, s, "/api/v1/goals")
	goals := body.Data.([]any)
	require.Len(t, goals, 1)
	assert.Equal(t, "sleep more", goals[0].(map[string]any)["text"])

	rec, body := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	rec, _ = get(t, s, "/metrics")
	assert.Equal(t, "metrics", rec.Body.String())

	rec, body = get(t, s, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestServer_UnhealthyAndReadOnly(t *testing.T) {
	hc := handlers.NewCompositeHealthChecker("v1")
	hc.AddCheck("scheduler", handlers.NewRunningCheck("scheduler", func() bool { return false }))
	s := NewServer(DefaultConfig(), Dependencies{HealthChecker: hc})

	rec, _ := get(t, s, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/goals", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec, _ = get(t, s, "/api/v1/goals")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type staticJobs []scheduler.JobInfo

func (j staticJobs) ListJobs() []scheduler.JobInfo { return j }

func TestServer_Jobs(t *testing.T) {
	lastRun := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	s := NewServer(DefaultConfig(), Dependencies{Jobs: staticJobs{
		{
			Name:       "reminder_poll",
			Schedule:   "@every 1s",
			LastRun:    lastRun,
			RunCount:   4,
			FailCount:  1,
			LastResult: &scheduler.JobResult{JobName: "reminder_poll", Error: assert.AnError},
		},
		{Name: "idle", Schedule: "@every 1h"},
	}})

	rec, body := get(t, s, "/api/v1/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, body.Meta.TotalCount)

	items := body.Data.([]any)
	poll := items[0].(map[string]any)
	assert.Equal(t, "reminder_poll", poll["name"])
	assert.Equal(t, 4.0, poll["run_count"])
	assert.Equal(t, 1.0, poll["fail_count"])
	assert.Equal(t, assert.AnError.Error(), poll["last_error"])
	assert.Equal(t, "2025-05-01T09:00:00Z", poll["last_run"])

	idle := items[1].(map[string]any)
	assert.NotContains(t, idle, "last_run")
	assert.NotContains(t, idle, "last_error")
}

func TestServer_JobsWithoutPoller(t *testing.T) {
	s := NewServer(DefaultConfig(), Dependencies{})

	rec, body := get(t, s, "/api/v1/jobs")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", body.Error.Code)
}

func TestServer_RateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestsPerSecond = 0.5
	s := newTestServer(t, cfg)

	rec, _ := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = get(t, s, "/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

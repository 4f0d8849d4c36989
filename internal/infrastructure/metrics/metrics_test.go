package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhelper/student-helper-bot/internal/application/generator"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/messaging"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/scheduler"
	"github.com/studyhelper/student-helper-bot/internal/interface/chat"
)

var (
	_ persistence.Observer = (*Metrics)(nil)
	_ scheduler.Observer   = (*Metrics)(nil)
	_ messaging.Observer   = (*Metrics)(nil)
	_ generator.Observer   = (*Metrics)(nil)
	_ chat.Observer        = (*Metrics)(nil)
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveIntent("add_subject", true, time.Millisecond)
	m.ObserveIntent("add_subject", true, time.Millisecond)
	m.ObserveSnapshot("save", "file", time.Millisecond, nil)
	m.ObserveSnapshot("save", "file", time.Millisecond, errors.New("disk full"))
	m.ObserveJob("reminder_poll", time.Millisecond, nil)
	m.ObserveDelivery("terminal", true)
	m.ObserveDelivery("redis", false)
	m.ObserveGeneration("ollama", time.Second, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.messages.WithLabelValues("add_subject", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotOps.WithLabelValues("save", "file", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotOps.WithLabelValues("save", "file", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("reminder_poll", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertDeliveries.WithLabelValues("redis", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("ollama", "ok")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveDelivery("terminal", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `studybot_alerts_deliveries_total{channel="terminal",status="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

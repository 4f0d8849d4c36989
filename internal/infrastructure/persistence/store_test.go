package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
)

// memBackend keeps the snapshot in memory and can be told to fail.
type memBackend struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error
	saves   int
}

func (m *memBackend) Name() string { return "mem" }

func (m *memBackend) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return nil, shared.NewDomainError("store", "Load", shared.ErrNotFound, "empty")
	}
	return m.data, nil
}

func (m *memBackend) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func TestDocument_LegacyKeys(t *testing.T) {
	raw := `{
  "subjects": {"Math": [8, 9]},
  "reminders": [
    {"task": "study", "time": "in 5 minutes", "due_datetime": "2025-01-01T10:05:00", "created": "2025-01-01 10:00", "completed": false, "notified": true}
  ],
  "goals": [{"goal": "read more", "created": "2025-01-01", "progress": 10, "target": 100}],
  "study_sessions": [{"minutes": 25}]
}`

	rec, err := Decode([]byte(raw))
	require.NoError(t, err)

	require.Len(t, rec.Reminders, 1)
	assert.Equal(t, "2025-01-01T10:05:00", rec.Reminders[0].DueAt)
	assert.Equal(t, "2025-01-01 10:00", rec.Reminders[0].CreatedAt)
	assert.True(t, rec.Reminders[0].Notified)

	require.Len(t, rec.Goals, 1)
	assert.Equal(t, "read more", rec.Goals[0].Text)
	assert.Equal(t, 10, rec.Goals[0].Progress)

	require.Len(t, rec.StudySessions, 1)
	assert.JSONEq(t, `{"minutes": 25}`, string(rec.StudySessions[0]))
}

func TestDocument_MissingCollections(t *testing.T) {
	rec, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, rec.Subjects)
	assert.Empty(t, rec.Reminders)
	assert.Empty(t, rec.Goals)

	data, err := Encode(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subjects": {}, "reminders": [], "goals": [], "study_sessions": []}`, string(data))
}

func TestDocument_RoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.Local)
	rec := student.NewRecord()
	rec.AddGrade("Math", 8.5)
	rec.AddGrade("Physics", 7)
	rec.AddReminder(reminder.New("r1", "review notes", reminder.ParseTimePhrase("in 10 minutes", now), now))
	rec.AddGoal(student.NewGoal("g1", "study 2 hours daily", now))

	data, err := Encode(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "due_datetime")

	got, err := Decode(data)
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_Corrupt(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	assert.True(t, shared.IsCorrupt(err))
}

func TestStore_Load_Fallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("missing snapshot starts fresh", func(t *testing.T) {
		s := NewStore(&memBackend{})
		assert.NoError(t, s.Load(ctx))
		assert.Empty(t, s.Snapshot().Subjects)
	})

	t.Run("corrupt snapshot starts fresh", func(t *testing.T) {
		s := NewStore(&memBackend{data: []byte("garbage")})
		err := s.Load(ctx)
		assert.True(t, shared.IsCorrupt(err))
		assert.Empty(t, s.Snapshot().Subjects)
	})

	t.Run("unreadable medium starts fresh", func(t *testing.T) {
		s := NewStore(&memBackend{loadErr: errors.New("permission denied")})
		err := s.Load(ctx)
		assert.ErrorIs(t, err, shared.ErrIO)
		assert.Empty(t, s.Snapshot().Goals)
	})
}

func TestStore_Mutate_SavesEveryChange(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	s := NewStore(backend)
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.Mutate(ctx, func(rec *student.Record) error {
		rec.AddGrade("Math", 9)
		return nil
	}))
	assert.Equal(t, 1, backend.saves)

	reloaded := NewStore(backend)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, []float64{9}, reloaded.Snapshot().Subjects["Math"])
}

func TestStore_Mutate_ErrorSkipsSave(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	s := NewStore(backend)

	err := s.Mutate(ctx, func(*student.Record) error { return shared.ErrGradeFormat })
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)

	err = s.Mutate(ctx, func(*student.Record) error { return ErrUnchanged })
	assert.NoError(t, err)
	assert.Zero(t, backend.saves)
}

func TestStore_Mutate_SaveFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	backend := &memBackend{saveErr: errors.New("disk full")}
	s := NewStore(backend, WithLogger(logger.FromZap(zap.New(core))))

	err := s.Mutate(context.Background(), func(rec *student.Record) error {
		rec.AddGrade("Math", 7)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []float64{7}, s.Snapshot().Subjects["Math"])

	entries := logs.FilterMessage("failed to save student data").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "mem", entries[0].ContextMap()["backend"])
}

func TestStore_Apply_ReportsSave(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	s := NewStore(backend)
	add := func(rec *student.Record) error {
		rec.AddGrade("Math", 7)
		return nil
	}

	saved, err := s.Apply(ctx, add)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = s.Apply(ctx, func(*student.Record) error { return ErrUnchanged })
	require.NoError(t, err)
	assert.False(t, saved)

	backend.saveErr = errors.New("disk full")
	saved, err = s.Apply(ctx, add)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, []float64{7, 7}, s.Snapshot().Subjects["Math"])

	saved, err = s.Apply(ctx, func(*student.Record) error { return shared.ErrGradeFormat })
	assert.ErrorIs(t, err, shared.ErrGradeFormat)
	assert.False(t, saved)
}

func TestStore_Reload_KeepsCurrentOnFailure(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	s := NewStore(backend)
	require.NoError(t, s.Mutate(ctx, func(rec *student.Record) error {
		rec.AddGrade("Math", 8)
		return nil
	}))

	backend.data = []byte("{broken")
	assert.Error(t, s.Reload(ctx))
	assert.Equal(t, []float64{8}, s.Snapshot().Subjects["Math"])

	backend.data = []byte(`{"subjects": {"History": [6]}}`)
	require.NoError(t, s.Reload(ctx))
	assert.Equal(t, []string{"History"}, s.Snapshot().SubjectNames())
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	s := NewStore(&memBackend{})
	require.NoError(t, s.Mutate(context.Background(), func(rec *student.Record) error {
		rec.AddGrade("Math", 8)
		return nil
	}))

	snap := s.Snapshot()
	snap.Subjects["Math"][0] = 1

	s.Get(func(rec *student.Record) {
		assert.Equal(t, 8.0, rec.Subjects["Math"][0])
	})
}

type recordingObserver struct {
	ops []string
}

func (o *recordingObserver) ObserveSnapshot(op, backend string, _ time.Duration, _ error) {
	o.ops = append(o.ops, op+":"+backend)
}

func TestStore_Observer(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore(&memBackend{}, WithObserver(obs))
	_ = s.Load(context.Background())
	require.NoError(t, s.SaveSnapshot(context.Background()))
	assert.Equal(t, []string{"load:mem", "save:mem"}, obs.ops)
}

// flakyBackend fails the first n calls.
type flakyBackend struct {
	memBackend
	failures int
	calls    int
}

func (f *flakyBackend) Save(ctx context.Context, data []byte) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection reset")
	}
	return f.memBackend.Save(ctx, data)
}

func TestResilientBackend_RetriesSave(t *testing.T) {
	inner := &flakyBackend{failures: 2}
	b := NewResilientBackend(inner, nil)

	require.NoError(t, b.Save(context.Background(), []byte(`{}`)))
	assert.Equal(t, 3, inner.calls)
}

func TestResilientBackend_NotFoundIsNotRetried(t *testing.T) {
	b := NewResilientBackend(&memBackend{}, nil)
	for range 5 {
		_, err := b.Load(context.Background())
		assert.True(t, shared.IsNotFound(err))
	}
	assert.Equal(t, "closed", b.BreakerState().String())
}

package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

type memBackend struct {
	mu    sync.Mutex
	data  []byte
	saves int
	fail  bool
}

func (m *memBackend) Name() string { return "mem" }

func (m *memBackend) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, shared.NewDomainError("store", "Load", shared.ErrNotFound, "empty")
	}
	return m.data, nil
}

func (m *memBackend) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.fail {
		return errors.New("read-only file system")
	}
	m.data = data
	return nil
}

func fixedIDs(ids ...string) IDFunc {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestAddGradeHandler(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	store := persistence.NewStore(backend)
	h := NewAddGradeHandler(store, nil)

	res, err := h.Handle(ctx, AddGradeCommand{Text: "add subject math grade 8"})
	require.NoError(t, err)
	assert.Equal(t, "Math", res.Subject)
	assert.InDelta(t, 8.0, res.Average, 1e-9)
	assert.True(t, res.Saved)

	res, err = h.Handle(ctx, AddGradeCommand{Text: "Add Subject MATH Grade 9.5"})
	require.NoError(t, err)
	assert.Equal(t, "Math", res.Subject)
	assert.InDelta(t, 8.75, res.Average, 1e-9)
	assert.Equal(t, 2, backend.saves)

	_, err = h.Handle(ctx, AddGradeCommand{Text: "add subject math"})
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
	assert.Equal(t, 2, backend.saves)
}

func TestAddGradeHandler_SaveFailureStillSucceeds(t *testing.T) {
	store := persistence.NewStore(&memBackend{fail: true})
	h := NewAddGradeHandler(store, nil)

	res, err := h.Handle(context.Background(), AddGradeCommand{Text: "add subject Art grade 7"})
	require.NoError(t, err)
	assert.Equal(t, "Art", res.Subject)
	assert.False(t, res.Saved)
	assert.Equal(t, []float64{7}, store.Snapshot().Subjects["Art"])
}

func TestSetReminderHandler_SaveFailure(t *testing.T) {
	now := time.Date(2025, 2, 10, 9, 0, 0, 0, time.Local)
	store := persistence.NewStore(&memBackend{fail: true})
	h := NewSetReminderHandler(store, timeutil.NewFixedClock(now), nil, nil)

	res, err := h.Handle(context.Background(), SetReminderCommand{Text: "set reminder read in 10 minutes"})
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.Len(t, store.Snapshot().Reminders, 1)
}

func TestSetReminderHandler(t *testing.T) {
	now := time.Date(2025, 2, 10, 23, 30, 0, 0, time.Local)
	store := persistence.NewStore(&memBackend{})
	h := NewSetReminderHandler(store, timeutil.NewFixedClock(now), fixedIDs("r-1", "r-2"), nil)
	ctx := context.Background()

	res, err := h.Handle(ctx, SetReminderCommand{Text: "set reminder review notes in 10 minutes"})
	require.NoError(t, err)
	assert.Equal(t, "r-1", res.Reminder.ID)
	assert.Equal(t, "review notes", res.Reminder.Task)
	assert.Equal(t, "in 10 minutes", res.Reminder.Time)
	assert.True(t, res.Saved)
	due, err := res.Reminder.DueTime()
	require.NoError(t, err)
	assert.True(t, due.Equal(now.Add(10*time.Minute)))

	res, err = h.Handle(ctx, SetReminderCommand{Text: "set reminder call home at 11:00pm"})
	require.NoError(t, err)
	due, _ = res.Reminder.DueTime()
	assert.True(t, due.Equal(time.Date(2025, 2, 11, 23, 0, 0, 0, time.Local)))

	_, err = h.Handle(ctx, SetReminderCommand{Text: "set reminder study"})
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)

	assert.Len(t, store.Snapshot().Reminders, 2)
}

func TestSetReminderHandler_Defaulted(t *testing.T) {
	now := time.Date(2025, 2, 10, 9, 0, 0, 0, time.Local)
	h := NewSetReminderHandler(persistence.NewStore(&memBackend{}), timeutil.NewFixedClock(now), nil, nil)

	res, err := h.Handle(context.Background(), SetReminderCommand{Text: "remind me to stretch at lunch"})
	require.NoError(t, err)
	assert.True(t, res.Defaulted)
	assert.Equal(t, "in 5 minutes (default)", res.Reminder.Time)
	assert.NotEmpty(t, res.Reminder.ID)
}

func TestSetGoalHandler(t *testing.T) {
	now := time.Date(2025, 2, 10, 9, 0, 0, 0, time.Local)
	store := persistence.NewStore(&memBackend{})
	h := NewSetGoalHandler(store, timeutil.NewFixedClock(now), fixedIDs("g-1"))

	goal, err := h.Handle(context.Background(), SetGoalCommand{Text: "Set Goal study 2 hours daily"})
	require.NoError(t, err)
	assert.Equal(t, "study 2 hours daily", goal.Text)
	assert.Equal(t, "2025-02-10", goal.CreatedAt)
	assert.Equal(t, 0, goal.Progress)
	assert.Equal(t, 100, goal.Target)

	_, err = h.Handle(context.Background(), SetGoalCommand{Text: "set goal   "})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
	assert.Len(t, store.Snapshot().Goals, 1)
}

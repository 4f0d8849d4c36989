package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
)

var zone = time.FixedZone("test", 3*60*60)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, zone)
}

func TestParseTimePhrase(t *testing.T) {
	now := at(2025, time.March, 10, 23, 30)

	tests := []struct {
		name      string
		phrase    string
		due       time.Time
		display   string
		defaulted bool
	}{
		{"relative minutes", "in 10 minutes", now.Add(10 * time.Minute), "in 10 minutes", false},
		{"relative hours", "in 2 hours", now.Add(2 * time.Hour), "in 2 hours", false},
		{"pm rolls to tomorrow", "11:00pm", at(2025, time.March, 11, 23, 0), "at 23:00", false},
		{"later today", "11:45 pm", at(2025, time.March, 10, 23, 45), "at 23:45", false},
		{"same minute rolls over", "23:30", at(2025, time.March, 11, 23, 30), "at 23:30", false},
		{"twelve am is midnight", "12:15am", at(2025, time.March, 11, 0, 15), "at 00:15", false},
		{"unknown phrase", "tomorrow morning", now.Add(5 * time.Minute), "in 5 minutes (default)", true},
		{"out of range hour", "13:00pm", now.Add(5 * time.Minute), "in 5 minutes (default)", true},
		{"minutes without number", "in a few minutes", now.Add(5 * time.Minute), "in 5 minutes (default)", true},
		{"huge hours", "in 3000000 hours", now.Add(5 * time.Minute), "in 5 minutes (default)", true},
		{"huge minutes", "in 200000000 minutes", now.Add(5 * time.Minute), "in 5 minutes (default)", true},
		{"largest hours", "in 2562047 hours", now.Add(2562047 * time.Hour), "in 2562047 hours", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimePhrase(tt.phrase, now)
			assert.True(t, tt.due.Equal(got.Due), "due: want %s got %s", tt.due, got.Due)
			assert.Equal(t, tt.display, got.Display)
			assert.Equal(t, tt.defaulted, got.Defaulted)
		})
	}
}

func TestParseTimePhrase_TwelvePM(t *testing.T) {
	now := at(2025, time.March, 10, 9, 0)
	got := ParseTimePhrase("12:30pm", now)
	assert.True(t, at(2025, time.March, 10, 12, 30).Equal(got.Due))
	assert.Equal(t, "at 12:30", got.Display)
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		task   string
		phrase string
		err    error
	}{
		{"at connector", "set reminder study Physics at 7:30pm", "study Physics", "7:30pm", nil},
		{"in connector", "set reminder review notes in 10 minutes", "review notes", "in 10 minutes", nil},
		{"remind me prefix", "remind me to call mom in 30 minutes", "to call mom", "in 30 minutes", nil},
		{"words containing at", "set reminder study math at 3:00pm", "study math", "3:00pm", nil},
		{"at wins over in", "set reminder revise in library at 5:00pm", "revise in library", "5:00pm", nil},
		{"no connector", "set reminder study", "", "", shared.ErrReminderFormat},
		{"missing task", "set reminder at 5:00pm", "", "", shared.ErrReminderIncomplete},
		{"missing time", "set reminder call mom at", "", "", shared.ErrReminderIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, phrase, err := SplitCommand(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.task, task)
			assert.Equal(t, tt.phrase, phrase)
		})
	}
}

func TestReminder_IsDue(t *testing.T) {
	now := at(2025, time.March, 10, 12, 0)

	past := New("r1", "stretch", Result{Due: now.Add(-time.Second), Display: "in 1 minutes"}, now)
	due, err := past.IsDue(now)
	require.NoError(t, err)
	assert.True(t, due)

	future := New("r2", "read", Result{Due: now.Add(time.Hour), Display: "in 1 hours"}, now)
	due, err = future.IsDue(now)
	require.NoError(t, err)
	assert.False(t, due)

	assert.True(t, past.MarkNotified())
	assert.False(t, past.MarkNotified())
	due, err = past.IsDue(now)
	require.NoError(t, err)
	assert.False(t, due)
	assert.Equal(t, StatusNotified, past.Status())
}

func TestReminder_MalformedDue(t *testing.T) {
	r := &Reminder{Task: "broken", DueAt: "next tuesday"}
	_, err := r.IsDue(time.Now())
	assert.Error(t, err)
}

func TestReminder_LegacyDueFormat(t *testing.T) {
	r := &Reminder{Task: "legacy", DueAt: "2024-01-02T15:04:05.123456"}
	due, err := r.DueTime()
	require.NoError(t, err)
	assert.Equal(t, 15, due.Hour())
	assert.Equal(t, 4, due.Minute())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "✅ Completed", (&Reminder{Completed: true, Notified: true}).Status().Label())
	assert.Equal(t, "🔔 Notified", (&Reminder{Notified: true}).Status().Label())
	assert.Equal(t, "⏳ Pending", (&Reminder{}).Status().Label())
}

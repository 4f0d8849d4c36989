package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
)

func TestAlert_Lines(t *testing.T) {
	r := &reminder.Reminder{ID: "r1", Task: "study Math", Time: "in 5 minutes", DueAt: "2025-01-01T10:05:00Z"}
	a := NewAlert(r, time.Date(2025, 1, 1, 10, 5, 3, 0, time.UTC))

	assert.Equal(t, []string{
		"🔔 REMINDER ALERT! 🔔",
		"⏰ Time: in 5 minutes",
		"📝 Task: study Math",
		"💡 Don't forget to study Math!",
		"========================================",
	}, a.Lines())
	assert.Equal(t, "r1", a.ReminderID)
}

func TestDeliveryResult(t *testing.T) {
	now := time.Now()
	ok := NewSuccessResult(ChannelTerminal, now)
	assert.True(t, ok.Success)
	assert.Equal(t, "terminal", ok.Channel.String())

	failed := NewFailureResult(ChannelRedis, now, ErrNoChannels)
	assert.False(t, failed.Success)
	assert.ErrorIs(t, failed.Error, ErrNoChannels)
}

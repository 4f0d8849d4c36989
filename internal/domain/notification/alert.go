// Package notification describes reminder alerts and the channels that
// deliver them.
package notification

import (
	"strings"
	"time"

	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
)

// ══════════════════════════════════════════════════════════════════════════════
// ALERT
// ══════════════════════════════════════════════════════════════════════════════

// Alert is emitted once per reminder when its due time is reached.
type Alert struct {
	ReminderID string    `json:"reminder_id"`
	Task       string    `json:"task"`
	Time       string    `json:"time"`
	DueAt      string    `json:"due_at"`
	FiredAt    time.Time `json:"fired_at"`
}

// NewAlert builds the alert for a reminder that just became due.
func NewAlert(r *reminder.Reminder, firedAt time.Time) Alert {
	return Alert{
		ReminderID: r.ID,
		Task:       r.Task,
		Time:       r.Time,
		DueAt:      r.DueAt,
		FiredAt:    firedAt,
	}
}

// Separator closes every alert block.
var Separator = strings.Repeat("=", 40)

// Lines returns the alert block as printed to the user, without the blank
// line that precedes it.
func (a Alert) Lines() []string {
	return []string{
		"🔔 REMINDER ALERT! 🔔",
		"⏰ Time: " + a.Time,
		"📝 Task: " + a.Task,
		"💡 Don't forget to " + a.Task + "!",
		Separator,
	}
}

// Text returns Lines joined with newlines.
func (a Alert) Text() string {
	return strings.Join(a.Lines(), "\n")
}

// Package reminder holds the reminder entity, the reminder command splitter
// and the natural-language time phrase parser.
package reminder

import (
	"time"

	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the display state of a reminder.
type Status string

const (
	StatusPending   Status = "pending"
	StatusNotified  Status = "notified"
	StatusCompleted Status = "completed"
)

// Label returns the status as shown in the reminder list.
func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "✅ Completed"
	case StatusNotified:
		return "🔔 Notified"
	default:
		return "⏳ Pending"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Reminder is a task with a due time. DueAt is kept as the stored string so a
// single malformed record can be skipped by the poller instead of failing the
// whole document load.
type Reminder struct {
	ID        string
	Task      string
	Time      string // display form, e.g. "in 10 minutes" or "at 19:30"
	DueAt     string
	CreatedAt string // YYYY-MM-DD HH:MM
	Completed bool
	Notified  bool
}

// New creates a pending reminder from a parsed time phrase.
func New(id, task string, when Result, now time.Time) *Reminder {
	return &Reminder{
		ID:        id,
		Task:      task,
		Time:      when.Display,
		DueAt:     timeutil.FormatDueStr(when.Due),
		CreatedAt: timeutil.FormatDateTimeStr(now),
	}
}

// DueTime parses the stored due timestamp.
func (r *Reminder) DueTime() (time.Time, error) {
	return timeutil.ParseDue(r.DueAt)
}

// Pending reports whether the reminder still waits for its alert.
func (r *Reminder) Pending() bool {
	return !r.Completed && !r.Notified
}

// IsDue reports whether a pending reminder's due time has been reached at now.
// A reminder that is not pending is never due. The error is non-nil only when
// the stored timestamp cannot be parsed.
func (r *Reminder) IsDue(now time.Time) (bool, error) {
	if !r.Pending() {
		return false, nil
	}
	due, err := r.DueTime()
	if err != nil {
		return false, err
	}
	return !now.Before(due), nil
}

// MarkNotified flips Notified to true. It returns false when the reminder had
// already been notified, so the transition happens at most once.
func (r *Reminder) MarkNotified() bool {
	if r.Notified {
		return false
	}
	r.Notified = true
	return true
}

// Status derives the display state. Completed wins over Notified.
func (r *Reminder) Status() Status {
	switch {
	case r.Completed:
		return StatusCompleted
	case r.Notified:
		return StatusNotified
	default:
		return StatusPending
	}
}

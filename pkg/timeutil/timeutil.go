// Package timeutil holds the clock abstraction and the date/time layouts used
// by the student record. All times are process-local wall clock.
package timeutil

import (
	"fmt"
	"sync"
	"time"
)

// Clock returns the current time. Production code uses SystemClock; tests use
// a FixedClock so due-time arithmetic is deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock is a settable clock for tests.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock returns a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Layouts written into the record.
const (
	// FormatDate is used for goal creation dates.
	FormatDate = "2006-01-02"
	// FormatTime is the HH:MM display used in reminder phrases.
	FormatTime = "15:04"
	// FormatDateTime is used for reminder creation stamps.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDue is the canonical due timestamp layout.
	FormatDue = time.RFC3339
	// formatLegacyDue is the offset-less ISO layout older data files carry.
	formatLegacyDue = "2006-01-02T15:04:05.999999999"
)

// AtClock returns the instant on t's calendar day at hour:minute, in t's location.
func AtClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// ParseDue parses a stored due timestamp. RFC 3339 is preferred; the
// offset-less form written by earlier versions is read as local time.
func ParseDue(value string) (time.Time, error) {
	if t, err := time.Parse(FormatDue, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(formatLegacyDue, value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised due timestamp %q", value)
}

// FormatDueStr formats a due instant for storage.
func FormatDueStr(t time.Time) string {
	return t.Format(FormatDue)
}

// FormatDateStr formats a time as YYYY-MM-DD.
func FormatDateStr(t time.Time) string {
	return t.Format(FormatDate)
}

// FormatTimeStr formats a time as HH:MM.
func FormatTimeStr(t time.Time) string {
	return t.Format(FormatTime)
}

// FormatDateTimeStr formats a time as YYYY-MM-DD HH:MM.
func FormatDateTimeStr(t time.Time) string {
	return t.Format(FormatDateTime)
}

// FormatRelative describes how far t is from now, e.g. "in 12 min" or "3 h ago".
func FormatRelative(t, now time.Time) string {
	d := t.Sub(now)
	if d < 0 {
		return formatPast(-d)
	}
	return formatFuture(d)
}

func formatPast(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func formatFuture(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("in %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("in %d h", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "tomorrow"
		}
		return fmt.Sprintf("in %d days", days)
	}
}

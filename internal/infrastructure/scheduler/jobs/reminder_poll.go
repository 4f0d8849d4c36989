// Package jobs contains the scheduled jobs of the study assistant.
package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/studyhelper/student-helper-bot/internal/domain/notification"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMINDER POLL JOB
// ══════════════════════════════════════════════════════════════════════════════

// ReminderPollJob fires alerts for reminders whose due time has passed.
//
// Each run marks due reminders as notified and saves the record while
// holding the store lock, then delivers the alerts after the lock is
// released. A reminder is therefore alerted at most once, even when a
// channel is slow or the chat is mid-command.
type ReminderPollJob struct {
	store  *persistence.Store
	sender notification.Sender
	clock  timeutil.Clock
	log    *logger.Logger

	lastRunStats atomic.Value // *ReminderPollStats
}

// ReminderPollStats describes the most recent run.
type ReminderPollStats struct {
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Scanned    int           `json:"scanned"`
	Fired      int           `json:"fired"`
	Malformed  int           `json:"malformed"`
	TotalFired int64         `json:"total_fired"`
}

// NewReminderPollJob creates the poll job. clock may be nil.
func NewReminderPollJob(store *persistence.Store, sender notification.Sender, clock timeutil.Clock, log *logger.Logger) *ReminderPollJob {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReminderPollJob{
		store:  store,
		sender: sender,
		clock:  clock,
		log:    log.With(logger.Component("reminder_poll")),
	}
}

// Name returns the job name.
func (j *ReminderPollJob) Name() string {
	return "reminder_poll"
}

// Description returns the job description.
func (j *ReminderPollJob) Description() string {
	return "Fires alerts for pending reminders whose due time has passed"
}

// Run performs one scan.
func (j *ReminderPollJob) Run(ctx context.Context) error {
	start := time.Now()
	now := j.clock.Now()
	stats := &ReminderPollStats{StartedAt: now}
	if prev := j.LastRunStats(); prev != nil {
		stats.TotalFired = prev.TotalFired
	}

	var alerts []notification.Alert
	err := j.store.Mutate(ctx, func(rec *student.Record) error {
		for _, r := range rec.Reminders {
			if !r.Pending() {
				continue
			}
			stats.Scanned++

			due, err := r.IsDue(now)
			if err != nil {
				stats.Malformed++
				j.log.Warn("skipping reminder with unreadable due time",
					logger.ReminderID(r.ID),
					logger.String("due_at", r.DueAt),
					logger.Err(err),
				)
				continue
			}
			if !due {
				continue
			}
			if r.MarkNotified() {
				alerts = append(alerts, notification.NewAlert(r, now))
			}
		}
		if len(alerts) == 0 {
			return persistence.ErrUnchanged
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, alert := range alerts {
		if ctx.Err() != nil {
			break
		}
		j.sender.Send(ctx, alert)
	}

	stats.Fired = len(alerts)
	stats.TotalFired += int64(len(alerts))
	stats.Duration = time.Since(start)
	j.lastRunStats.Store(stats)

	if stats.Fired > 0 {
		j.log.Info("reminder alerts fired", logger.Int("count", stats.Fired))
	}
	return nil
}

// LastRunStats returns statistics from the last run, or nil before the
// first run.
func (j *ReminderPollJob) LastRunStats() *ReminderPollStats {
	if v := j.lastRunStats.Load(); v != nil {
		return v.(*ReminderPollStats)
	}
	return nil
}

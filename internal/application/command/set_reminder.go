package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET REMINDER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SetReminderCommand carries the raw "set reminder <task> at|in <time>" text.
type SetReminderCommand struct {
	Text string
}

// SetReminderResult holds the stored reminder.
type SetReminderResult struct {
	Reminder reminder.Reminder

	// Defaulted is true when the time phrase was not understood and the
	// five-minute default was used.
	Defaulted bool

	// Saved is false when the reminder is only held in memory.
	Saved bool
}

// IDFunc generates record IDs.
type IDFunc func() string

// NewUUID is the default IDFunc.
func NewUUID() string { return uuid.NewString() }

// SetReminderHandler handles the SetReminderCommand.
type SetReminderHandler struct {
	store *persistence.Store
	clock timeutil.Clock
	newID IDFunc
	log   *logger.Logger
}

// NewSetReminderHandler creates a new SetReminderHandler. clock and newID
// may be nil.
func NewSetReminderHandler(store *persistence.Store, clock timeutil.Clock, newID IDFunc, log *logger.Logger) *SetReminderHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if newID == nil {
		newID = NewUUID
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SetReminderHandler{store: store, clock: clock, newID: newID, log: log}
}

// Handle splits the command, resolves the time phrase against the clock and
// stores a pending reminder.
func (h *SetReminderHandler) Handle(ctx context.Context, cmd SetReminderCommand) (*SetReminderResult, error) {
	task, phrase, err := reminder.SplitCommand(cmd.Text)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	when := reminder.ParseTimePhrase(phrase, now)
	rem := reminder.New(h.newID(), task, when, now)

	result := &SetReminderResult{Defaulted: when.Defaulted}
	result.Saved, err = h.store.Apply(ctx, func(rec *student.Record) error {
		rec.AddReminder(rem)
		result.Reminder = *rem
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.Debug("reminder set",
		logger.ReminderID(result.Reminder.ID),
		logger.String("due_at", result.Reminder.DueAt),
		logger.Bool("defaulted", when.Defaulted),
	)
	return result, nil
}

package query

import (
	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
)

// ListRemindersQuery filters the reminder list.
type ListRemindersQuery struct {
	// PendingOnly drops reminders that were already alerted or completed.
	PendingOnly bool
}

// ListRemindersHandler returns copies of the stored reminders in insertion
// order.
type ListRemindersHandler struct {
	store *persistence.Store
}

// NewListRemindersHandler creates a new ListRemindersHandler.
func NewListRemindersHandler(store *persistence.Store) *ListRemindersHandler {
	return &ListRemindersHandler{store: store}
}

// Handle returns the reminders matching q.
func (h *ListRemindersHandler) Handle(q ListRemindersQuery) []reminder.Reminder {
	var out []reminder.Reminder
	h.store.Get(func(rec *student.Record) {
		out = make([]reminder.Reminder, 0, len(rec.Reminders))
		for _, r := range rec.Reminders {
			if q.PendingOnly && !r.Pending() {
				continue
			}
			out = append(out, *r)
		}
	})
	return out
}

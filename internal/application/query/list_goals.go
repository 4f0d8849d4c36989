package query

import (
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
)

// ListGoalsHandler returns copies of the stored goals in insertion order.
type ListGoalsHandler struct {
	store *persistence.Store
}

// NewListGoalsHandler creates a new ListGoalsHandler.
func NewListGoalsHandler(store *persistence.Store) *ListGoalsHandler {
	return &ListGoalsHandler{store: store}
}

// Handle returns every goal.
func (h *ListGoalsHandler) Handle() []student.Goal {
	var out []student.Goal
	h.store.Get(func(rec *student.Record) {
		out = make([]student.Goal, 0, len(rec.Goals))
		for _, g := range rec.Goals {
			out = append(out, *g)
		}
	})
	return out
}

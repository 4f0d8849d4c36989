// Package query contains the read operations on the student record.
package query

import (
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetProgressHandler returns the academic summary of the record.
type GetProgressHandler struct {
	store *persistence.Store
}

// NewGetProgressHandler creates a new GetProgressHandler.
func NewGetProgressHandler(store *persistence.Store) *GetProgressHandler {
	return &GetProgressHandler{store: store}
}

// Handle computes the summary under the store lock.
func (h *GetProgressHandler) Handle() student.Progress {
	var p student.Progress
	h.store.Get(func(rec *student.Record) {
		p = rec.Progress()
	})
	return p
}

// SubjectNames returns the tracked subjects in alphabetical order.
func (h *GetProgressHandler) SubjectNames() []string {
	var names []string
	h.store.Get(func(rec *student.Record) {
		names = rec.SubjectNames()
	})
	return names
}

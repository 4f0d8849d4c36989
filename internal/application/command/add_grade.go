// Package command contains the write operations on the student record.
package command

import (
	"context"

	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD GRADE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddGradeCommand carries the raw "add subject <Name> grade <Number>" text.
type AddGradeCommand struct {
	Text string
}

// AddGradeResult is what the reply is built from.
type AddGradeResult struct {
	// Subject is the stored spelling, which may differ from the input when
	// the subject already existed.
	Subject string
	Grade   float64
	Average float64

	// Saved is false when the change is only held in memory.
	Saved bool
}

// AddGradeHandler handles the AddGradeCommand.
type AddGradeHandler struct {
	store *persistence.Store
	log   *logger.Logger
}

// NewAddGradeHandler creates a new AddGradeHandler.
func NewAddGradeHandler(store *persistence.Store, log *logger.Logger) *AddGradeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AddGradeHandler{store: store, log: log}
}

// Handle parses the command and appends the grade. A parse failure returns
// shared.ErrGradeFormat and leaves the record untouched.
func (h *AddGradeHandler) Handle(ctx context.Context, cmd AddGradeCommand) (*AddGradeResult, error) {
	subject, grade, err := student.ParseGradeCommand(cmd.Text)
	if err != nil {
		return nil, err
	}

	result := &AddGradeResult{Grade: grade}
	result.Saved, err = h.store.Apply(ctx, func(rec *student.Record) error {
		result.Subject, result.Average = rec.AddGrade(subject, grade)
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.Debug("grade added",
		logger.Subject(result.Subject),
		logger.Float64("grade", grade),
		logger.Float64("average", result.Average),
		logger.Bool("saved", result.Saved),
	)
	return result, nil
}

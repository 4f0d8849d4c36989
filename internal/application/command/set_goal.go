package command

import (
	"context"

	"github.com/studyhelper/student-helper-bot/internal/domain/student"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET GOAL COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SetGoalCommand carries the raw "set goal <text>" text.
type SetGoalCommand struct {
	Text string
}

// SetGoalHandler handles the SetGoalCommand.
type SetGoalHandler struct {
	store *persistence.Store
	clock timeutil.Clock
	newID IDFunc
}

// NewSetGoalHandler creates a new SetGoalHandler.
func NewSetGoalHandler(store *persistence.Store, clock timeutil.Clock, newID IDFunc) *SetGoalHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if newID == nil {
		newID = NewUUID
	}
	return &SetGoalHandler{store: store, clock: clock, newID: newID}
}

// Handle stores the goal and returns a copy of it.
func (h *SetGoalHandler) Handle(ctx context.Context, cmd SetGoalCommand) (*student.Goal, error) {
	text, err := student.ParseGoalCommand(cmd.Text)
	if err != nil {
		return nil, err
	}

	goal := student.NewGoal(h.newID(), text, h.clock.Now())
	out := *goal
	err = h.store.Mutate(ctx, func(rec *student.Record) error {
		rec.AddGoal(goal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

package student

import (
	"time"

	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

// GoalTarget is the target every goal is created with.
const GoalTarget = 100

// Goal is a free-text study goal. Progress is stored but nothing updates it yet.
type Goal struct {
	ID        string
	Text      string
	CreatedAt string // YYYY-MM-DD
	Progress  int
	Target    int
}

// NewGoal creates a goal with zero progress.
func NewGoal(id, text string, now time.Time) *Goal {
	return &Goal{
		ID:        id,
		Text:      text,
		CreatedAt: timeutil.FormatDateStr(now),
		Progress:  0,
		Target:    GoalTarget,
	}
}

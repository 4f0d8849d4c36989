package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
)

func TestRecord_AddGrade_RunningAverage(t *testing.T) {
	rec := NewRecord()

	name, avg := rec.AddGrade("math", 8)
	assert.Equal(t, "Math", name)
	assert.InDelta(t, 8.0, avg, 1e-9)

	name, avg = rec.AddGrade("MATH", 9)
	assert.Equal(t, "Math", name)
	assert.InDelta(t, 8.5, avg, 1e-9)

	_, avg = rec.AddGrade("Math", 5.5)
	assert.InDelta(t, (8+9+5.5)/3.0, avg, 1e-9)
	assert.Equal(t, []float64{8, 9, 5.5}, rec.Subjects["Math"])
	assert.Len(t, rec.Subjects, 1)
}

func TestRecord_AddGrade_KeepsLegacySpelling(t *testing.T) {
	rec := NewRecord()
	rec.Subjects["physics"] = []float64{7}

	name, avg := rec.AddGrade("Physics", 9)
	assert.Equal(t, "physics", name)
	assert.InDelta(t, 8.0, avg, 1e-9)
	assert.Len(t, rec.Subjects, 1)
}

func TestRecord_AddGrade_OutOfRangeAccepted(t *testing.T) {
	rec := NewRecord()
	_, avg := rec.AddGrade("Art", 15)
	assert.InDelta(t, 15.0, avg, 1e-9)
}

func TestNormalizeSubject(t *testing.T) {
	assert.Equal(t, "Data Structures", NormalizeSubject("  data   STRUCTURES "))
	assert.Equal(t, "Math", NormalizeSubject("math"))
	assert.Equal(t, "", NormalizeSubject("   "))
}

func TestRecord_Progress(t *testing.T) {
	rec := NewRecord()
	rec.AddGrade("Physics", 6)
	rec.AddGrade("Physics", 7)
	rec.AddGrade("Math", 9)
	rec.AddGrade("Math", 8)
	rec.Subjects["Empty"] = nil

	p := rec.Progress()
	require.Len(t, p.Subjects, 2)

	assert.Equal(t, "Math", p.Subjects[0].Name)
	assert.InDelta(t, 8.5, p.Subjects[0].Average, 1e-9)
	assert.Equal(t, TierExcellent, p.Subjects[0].Tier)

	assert.Equal(t, "Physics", p.Subjects[1].Name)
	assert.InDelta(t, 6.5, p.Subjects[1].Average, 1e-9)
	assert.Equal(t, TierGood, p.Subjects[1].Tier)

	// mean of means, not mean of all grades
	assert.InDelta(t, 7.5, p.OverallCGPA, 1e-9)
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, "🌟 Excellent", TierFor(8.5).Label())
	assert.Equal(t, "👍 Very Good", TierFor(7.5).Label())
	assert.Equal(t, "✅ Good", TierFor(6.5).Label())
	assert.Equal(t, "📈 Improving", TierFor(6.49).Label())
}

func TestParseGradeCommand(t *testing.T) {
	subject, grade, err := ParseGradeCommand("add subject data structures grade 8.5")
	require.NoError(t, err)
	assert.Equal(t, "Data Structures", subject)
	assert.InDelta(t, 8.5, grade, 1e-9)

	subject, grade, err = ParseGradeCommand("Please ADD SUBJECT Chemistry GRADE 7")
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", subject)
	assert.InDelta(t, 7.0, grade, 1e-9)

	subject, grade, err = ParseGradeCommand("add subject for my subject Math grade 8")
	require.NoError(t, err)
	assert.Equal(t, "Math", subject)
	assert.InDelta(t, 8.0, grade, 1e-9)

	_, _, err = ParseGradeCommand("add subject math")
	assert.ErrorIs(t, err, shared.ErrGradeFormat)
	assert.True(t, shared.IsValidation(err))
}

func TestParseGoalCommand(t *testing.T) {
	goal, err := ParseGoalCommand("set goal study 2 hours daily")
	require.NoError(t, err)
	assert.Equal(t, "study 2 hours daily", goal)

	goal, err = ParseGoalCommand("Set Goal finish the Project")
	require.NoError(t, err)
	assert.Equal(t, "finish the Project", goal)

	_, err = ParseGoalCommand("set goal   ")
	assert.ErrorIs(t, err, shared.ErrGoalFormat)
}

func TestComputeCGPA(t *testing.T) {
	grades, cgpa, err := ComputeCGPA("calculate cgpa with grades 8, 9, 15, 7")
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 9, 7}, grades)
	assert.InDelta(t, 8.0, cgpa, 1e-9)

	grades, cgpa, err = ComputeCGPA("grades 8.5 and 9.5")
	require.NoError(t, err)
	assert.Equal(t, []float64{8.5, 9.5}, grades)
	assert.InDelta(t, 9.0, cgpa, 1e-9)

	_, _, err = ComputeCGPA("calculate cgpa please")
	assert.ErrorIs(t, err, shared.ErrNoGrades)
}

func TestRecord_Clone(t *testing.T) {
	rec := NewRecord()
	rec.AddGrade("Math", 8)
	rec.AddGoal(NewGoal("g1", "read more", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))

	c := rec.Clone()
	c.Subjects["Math"][0] = 1
	c.Goals[0].Text = "changed"

	assert.Equal(t, 8.0, rec.Subjects["Math"][0])
	assert.Equal(t, "read more", rec.Goals[0].Text)
	assert.Equal(t, "2025-01-02", rec.Goals[0].CreatedAt)
	assert.Equal(t, GoalTarget, rec.Goals[0].Target)
}

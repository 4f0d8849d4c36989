package presenter

import (
	"fmt"

	"github.com/studyhelper/student-helper-bot/internal/application/command"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND REPLIES
// ══════════════════════════════════════════════════════════════════════════════

// NotSaved replaces the saved line when the write failed. The change stays
// in memory and goes out with the next successful save.
const NotSaved = "⚠️ Couldn't save right now. I'll keep it and try again with your next change."

// GradeAdded confirms an add-grade command.
func GradeAdded(r *command.AddGradeResult) string {
	return fmt.Sprintf("✅ Added %s: %s\n📊 Current average in %s: %s\n%s",
		r.Subject, FormatGrade(r.Grade), r.Subject, FormatAverage(r.Average),
		savedLine(r.Saved, "💾 Data saved!"))
}

// ReminderSet confirms a set-reminder command.
func ReminderSet(r *command.SetReminderResult) string {
	return fmt.Sprintf("⏰ Reminder set!\n📝 Task: %s\n🕐 Time: %s\n⚡ I'll notify you automatically when it's time!\n%s",
		r.Reminder.Task, r.Reminder.Time, savedLine(r.Saved, "💾 Reminder saved!"))
}

func savedLine(saved bool, ok string) string {
	if saved {
		return ok
	}
	return NotSaved
}

// GoalSet confirms a set-goal command.
func GoalSet(g *student.Goal) string {
	return fmt.Sprintf("🎯 Goal set: %s\n📈 Track your progress with 'show goals'\n💪 You've got this!", g.Text)
}

// CGPA reports an ad-hoc calculation.
func CGPA(grades []float64, cgpa float64) string {
	return fmt.Sprintf("🎯 CGPA: %s from grades %s\n💡 Add these to tracking: 'add subject [name] grade [grade]'",
		FormatAverage(cgpa), FormatGrades(grades))
}

package presenter

import (
	"fmt"
	"strings"

	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD VIEWS
// ══════════════════════════════════════════════════════════════════════════════

const (
	noSubjects  = "📚 No subjects added yet! Try: 'add subject Math grade 8.5'"
	noReminders = "⏰ No reminders set! Try: 'set reminder study Math in 5 minutes'"
	noGoals     = "🎯 No goals set! Try: 'set goal study 2 hours daily'"
)

// ─────────────────────────────────────────────────────────────────────────────
// PROGRESS
// ─────────────────────────────────────────────────────────────────────────────

// RenderProgress lists every subject with its grades, average and tier,
// followed by the overall CGPA.
func RenderProgress(p student.Progress) string {
	if len(p.Subjects) == 0 {
		return noSubjects
	}

	var sb strings.Builder
	sb.WriteString("📊 Your Academic Progress:\n")
	sb.WriteString(rule(40))
	sb.WriteString("\n")

	for _, s := range p.Subjects {
		fmt.Fprintf(&sb, "\n📚 %s:\n   Grades: %s\n   Average: %s %s\n",
			s.Name, FormatGrades(s.Grades), FormatAverage(s.Average), s.Tier.Label())
	}

	fmt.Fprintf(&sb, "\n🎯 Overall CGPA: %s", FormatAverage(p.OverallCGPA))
	fmt.Fprintf(&sb, "\n📈 Total Subjects: %d", len(p.Subjects))
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// REMINDERS
// ─────────────────────────────────────────────────────────────────────────────

// RenderReminders lists reminders in insertion order with their status.
func RenderReminders(reminders []reminder.Reminder) string {
	if len(reminders) == 0 {
		return noReminders
	}

	var sb strings.Builder
	sb.WriteString("⏰ Your Study Reminders:\n")
	sb.WriteString(rule(30))
	sb.WriteString("\n")

	for i, r := range reminders {
		fmt.Fprintf(&sb, "\n%d. 📝 %s\n   🕐 %s\n   %s\n", i+1, r.Task, r.Time, r.Status().Label())
	}

	sb.WriteString("\n💡 Active reminders will notify you automatically!")
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// GOALS
// ─────────────────────────────────────────────────────────────────────────────

// RenderGoals lists goals in insertion order.
func RenderGoals(goals []student.Goal) string {
	if len(goals) == 0 {
		return noGoals
	}

	var sb strings.Builder
	sb.WriteString("🎯 Your Study Goals:\n")
	sb.WriteString(rule(25))
	sb.WriteString("\n")

	for i, g := range goals {
		fmt.Fprintf(&sb, "\n%d. 📋 %s\n   📅 Created: %s\n   📈 Progress: %d%%\n", i+1, g.Text, g.CreatedAt, g.Progress)
	}

	sb.WriteString("\n💡 Keep working towards your goals! 🌟")
	return sb.String()
}

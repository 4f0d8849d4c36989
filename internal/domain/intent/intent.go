// Package intent maps free text to a symbolic intent using an ordered table
// of regular expression groups. Table order is the only tie-break between
// groups whose patterns overlap, so it is part of the contract.
package intent

import (
	"regexp"
	"strings"
)

// Name is a symbolic intent.
type Name string

const (
	GPAQuestion     Name = "gpa_question"
	CGPAQuestion    Name = "cgpa_question"
	CGPACalculation Name = "cgpa_calculation"
	StudyTips       Name = "study_tips"
	TimeManagement  Name = "time_management"
	ExamPrep        Name = "exam_prep"
	ShowSubjects    Name = "show_subjects"
	ShowProgress    Name = "show_progress"
	ShowReminders   Name = "show_reminders"
	ShowGoals       Name = "show_goals"
	HelpCommand     Name = "help_command"
	AddSubject      Name = "add_subject"
	SetReminder     Name = "set_reminder"
	SetGoal         Name = "set_goal"

	// Unknown is returned when no group matches.
	Unknown Name = "unknown"
)

func (n Name) String() string { return string(n) }

// IsAdvisory reports whether the intent is answered with study advice rather
// than by reading or changing the record.
func (n Name) IsAdvisory() bool {
	switch n {
	case GPAQuestion, CGPAQuestion, StudyTips, TimeManagement, ExamPrep:
		return true
	}
	return false
}

// Rule is one intent group. A rule matches when any of its patterns is found
// anywhere in the normalised text.
type Rule struct {
	Intent   Name
	Patterns []*regexp.Regexp
}

// Matches reports whether any pattern occurs in text.
func (r Rule) Matches(text string) bool {
	for _, p := range r.Patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Table is an ordered list of rules; earlier rules win.
type Table []Rule

func rule(name Name, patterns ...string) Rule {
	r := Rule{Intent: name, Patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(p))
	}
	return r
}

// DefaultTable returns the bot's intent table. Show commands come before set
// commands: "show reminders" must never resolve to set_reminder.
func DefaultTable() Table {
	return Table{
		// \bgpa keeps "cgpa" questions out of the GPA rule, unlike a bare
		// "gpa" substring which would catch them first.
		rule(GPAQuestion, `what.*\bgpa`, `explain.*\bgpa`, `\bgpa.*mean`),
		rule(CGPAQuestion, `what.*cgpa`, `explain.*cgpa`, `cgpa.*mean`),
		rule(CGPACalculation, `calculate.*cgpa`, `cgpa.*calculation`, `find.*cgpa`),
		rule(StudyTips, `study.*tips`, `how.*study`, `study.*better`),
		rule(TimeManagement, `time.*management`, `manage.*time`),
		rule(ExamPrep, `exam.*prep`, `prepare.*exam`),

		rule(ShowSubjects, `show.*subjects`, `list.*subjects`, `my.*subjects`),
		rule(ShowProgress, `show.*progress`, `my.*progress`, `academic.*progress`),
		rule(ShowReminders, `show.*reminders`, `my.*reminders`, `list.*reminders`),
		rule(ShowGoals, `show.*goals`, `my.*goals`, `list.*goals`),
		rule(HelpCommand, `^help$`, `help`, `commands`, `what.*can.*do`),

		rule(AddSubject, `add.*subject`, `new.*subject`, `subject.*grade`),
		rule(SetReminder, `set.*reminder`, `remind.*me`),
		rule(SetGoal, `set.*goal`, `^goal`, `target`),
	}
}

// Resolver resolves text against a table.
type Resolver struct {
	table Table
}

// NewResolver creates a resolver over table. A nil table means DefaultTable.
func NewResolver(table Table) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table}
}

// Normalize lowercases and trims text the way the resolver sees it.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Resolve returns the first intent whose group matches, or Unknown.
func (r *Resolver) Resolve(text string) Name {
	normalized := Normalize(text)
	for _, rl := range r.table {
		if rl.Matches(normalized) {
			return rl.Intent
		}
	}
	return Unknown
}

// Intents lists the table's intents in evaluation order.
func (r *Resolver) Intents() []Name {
	names := make([]Name, len(r.table))
	for i, rl := range r.table {
		names[i] = rl.Intent
	}
	return names
}

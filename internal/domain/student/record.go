package student

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record is the whole persisted student document.
type Record struct {
	Subjects  map[string][]float64
	Reminders []*reminder.Reminder
	Goals     []*Goal

	// StudySessions is carried through load and save untouched.
	StudySessions []json.RawMessage
}

// NewRecord returns the empty default record.
func NewRecord() *Record {
	return &Record{
		Subjects:      map[string][]float64{},
		Reminders:     []*reminder.Reminder{},
		Goals:         []*Goal{},
		StudySessions: []json.RawMessage{},
	}
}

// EnsureDefaults replaces nil collections with empty ones. Decoded documents
// may omit keys.
func (r *Record) EnsureDefaults() {
	if r.Subjects == nil {
		r.Subjects = map[string][]float64{}
	}
	if r.Reminders == nil {
		r.Reminders = []*reminder.Reminder{}
	}
	if r.Goals == nil {
		r.Goals = []*Goal{}
	}
	if r.StudySessions == nil {
		r.StudySessions = []json.RawMessage{}
	}
}

// Clone returns a deep copy that shares nothing with r.
func (r *Record) Clone() *Record {
	c := &Record{
		Subjects:      make(map[string][]float64, len(r.Subjects)),
		Reminders:     make([]*reminder.Reminder, 0, len(r.Reminders)),
		Goals:         make([]*Goal, 0, len(r.Goals)),
		StudySessions: make([]json.RawMessage, 0, len(r.StudySessions)),
	}
	for name, grades := range r.Subjects {
		c.Subjects[name] = slices.Clone(grades)
	}
	for _, rem := range r.Reminders {
		cp := *rem
		c.Reminders = append(c.Reminders, &cp)
	}
	for _, g := range r.Goals {
		cp := *g
		c.Goals = append(c.Goals, &cp)
	}
	for _, s := range r.StudySessions {
		c.StudySessions = append(c.StudySessions, slices.Clone(s))
	}
	return c
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// AddGrade appends grade to subject and returns the stored subject name and
// the running average. Names match case-insensitively after normalisation,
// so an existing key keeps its spelling. Grades are not range checked.
func (r *Record) AddGrade(subject string, grade float64) (string, float64) {
	name := NormalizeSubject(subject)
	if existing, ok := r.lookupSubject(name); ok {
		name = existing
	}
	r.Subjects[name] = append(r.Subjects[name], grade)
	return name, lo.Mean(r.Subjects[name])
}

func (r *Record) lookupSubject(name string) (string, bool) {
	if _, ok := r.Subjects[name]; ok {
		return name, true
	}
	for key := range r.Subjects {
		if strings.EqualFold(key, name) {
			return key, true
		}
	}
	return "", false
}

// Average returns the mean grade of subject.
func (r *Record) Average(subject string) (float64, bool) {
	name, ok := r.lookupSubject(NormalizeSubject(subject))
	if !ok || len(r.Subjects[name]) == 0 {
		return 0, false
	}
	return lo.Mean(r.Subjects[name]), true
}

// SubjectNames returns subject names in alphabetical order.
func (r *Record) SubjectNames() []string {
	names := lo.Keys(r.Subjects)
	slices.Sort(names)
	return names
}

// ══════════════════════════════════════════════════════════════════════════════
// REMINDERS & GOALS
// ══════════════════════════════════════════════════════════════════════════════

// AddReminder appends a reminder.
func (r *Record) AddReminder(rem *reminder.Reminder) {
	r.Reminders = append(r.Reminders, rem)
}

// AddGoal appends a goal.
func (r *Record) AddGoal(g *Goal) {
	r.Goals = append(r.Goals, g)
}

// PendingReminders returns reminders still waiting for their alert.
func (r *Record) PendingReminders() []*reminder.Reminder {
	return lo.Filter(r.Reminders, func(rem *reminder.Reminder, _ int) bool {
		return rem.Pending()
	})
}

// Package persistence owns the in-memory student record and mirrors it to a
// snapshot backend (JSON file, Postgres row or Redis key) after every change.
package persistence

import (
	"encoding/json"

	"github.com/studyhelper/student-helper-bot/internal/domain/reminder"
	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
	"github.com/studyhelper/student-helper-bot/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON-DISK DOCUMENT
// ══════════════════════════════════════════════════════════════════════════════

// document is the persisted JSON shape. Older data files used due_datetime,
// created and goal; those keys are read as fallbacks and never written.
type document struct {
	Subjects      map[string][]float64 `json:"subjects"`
	Reminders     []reminderDoc        `json:"reminders"`
	Goals         []goalDoc            `json:"goals"`
	StudySessions []json.RawMessage    `json:"study_sessions"`
}

type reminderDoc struct {
	ID        string `json:"id,omitempty"`
	Task      string `json:"task"`
	Time      string `json:"time"`
	DueAt     string `json:"due_at,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Completed bool   `json:"completed"`
	Notified  bool   `json:"notified"`

	LegacyDue     string `json:"due_datetime,omitempty"`
	LegacyCreated string `json:"created,omitempty"`
}

type goalDoc struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Progress  int    `json:"progress"`
	Target    int    `json:"target"`

	LegacyText    string `json:"goal,omitempty"`
	LegacyCreated string `json:"created,omitempty"`
}

// Encode serialises the record as indented JSON.
func Encode(rec *student.Record) ([]byte, error) {
	doc := document{
		Subjects:      rec.Subjects,
		Reminders:     make([]reminderDoc, 0, len(rec.Reminders)),
		Goals:         make([]goalDoc, 0, len(rec.Goals)),
		StudySessions: rec.StudySessions,
	}
	if doc.Subjects == nil {
		doc.Subjects = map[string][]float64{}
	}
	if doc.StudySessions == nil {
		doc.StudySessions = []json.RawMessage{}
	}

	for _, r := range rec.Reminders {
		doc.Reminders = append(doc.Reminders, reminderDoc{
			ID:        r.ID,
			Task:      r.Task,
			Time:      r.Time,
			DueAt:     r.DueAt,
			CreatedAt: r.CreatedAt,
			Completed: r.Completed,
			Notified:  r.Notified,
		})
	}
	for _, g := range rec.Goals {
		doc.Goals = append(doc.Goals, goalDoc{
			ID:        g.ID,
			Text:      g.Text,
			CreatedAt: g.CreatedAt,
			Progress:  g.Progress,
			Target:    g.Target,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, shared.WrapError("store", "Encode", shared.ErrCorruptData, "cannot encode record", err)
	}
	return data, nil
}

// Decode parses a persisted document. Missing collections become empty.
func Decode(data []byte) (*student.Record, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, shared.WrapError("store", "Decode", shared.ErrCorruptData, "data file is not valid JSON", err)
	}

	rec := &student.Record{
		Subjects:      doc.Subjects,
		Reminders:     make([]*reminder.Reminder, 0, len(doc.Reminders)),
		Goals:         make([]*student.Goal, 0, len(doc.Goals)),
		StudySessions: doc.StudySessions,
	}

	for _, d := range doc.Reminders {
		rec.Reminders = append(rec.Reminders, &reminder.Reminder{
			ID:        d.ID,
			Task:      d.Task,
			Time:      d.Time,
			DueAt:     firstNonEmpty(d.DueAt, d.LegacyDue),
			CreatedAt: firstNonEmpty(d.CreatedAt, d.LegacyCreated),
			Completed: d.Completed,
			Notified:  d.Notified,
		})
	}
	for _, d := range doc.Goals {
		rec.Goals = append(rec.Goals, &student.Goal{
			ID:        d.ID,
			Text:      firstNonEmpty(d.Text, d.LegacyText),
			CreatedAt: firstNonEmpty(d.CreatedAt, d.LegacyCreated),
			Progress:  d.Progress,
			Target:    d.Target,
		})
	}

	rec.EnsureDefaults()
	return rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

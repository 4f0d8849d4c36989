package student

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
)

const (
	MinGrade = 0.0
	MaxGrade = 10.0
)

var (
	// The leading .* binds the name to the last "subject" in the text.
	gradeCommand = regexp.MustCompile(`(?i).*subject\s+([a-zA-Z\s]+)\s+grade\s+(\d+(?:\.\d+)?)`)
	goalPrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)set goal`),
		regexp.MustCompile(`(?i)goal`),
	}
	gradeToken = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
)

// ParseGradeCommand reads "add subject <Name> grade <Number>" anywhere in text.
func ParseGradeCommand(text string) (string, float64, error) {
	m := gradeCommand.FindStringSubmatch(text)
	if m == nil {
		return "", 0, shared.ErrGradeFormat
	}
	subject := NormalizeSubject(m[1])
	if subject == "" {
		return "", 0, shared.ErrGradeFormat
	}
	grade, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return "", 0, shared.ErrGradeFormat
	}
	return subject, grade, nil
}

// ParseGoalCommand strips "set goal" and then "goal" (anywhere, any case)
// and returns what is left.
func ParseGoalCommand(text string) (string, error) {
	goal := text
	for _, p := range goalPrefixes {
		goal = p.ReplaceAllString(goal, "")
	}
	goal = strings.TrimSpace(whitespaceRun.ReplaceAllString(goal, " "))
	if goal == "" {
		return "", shared.ErrGoalFormat
	}
	return goal, nil
}

// ExtractGrades returns every standalone number in text that lies in the
// 0-10 grade range, in order of appearance.
func ExtractGrades(text string) []float64 {
	tokens := gradeToken.FindAllString(text, -1)
	values := lo.FilterMap(tokens, func(tok string, _ int) (float64, bool) {
		v, err := strconv.ParseFloat(tok, 64)
		return v, err == nil
	})
	return lo.Filter(values, func(v float64, _ int) bool {
		return v >= MinGrade && v <= MaxGrade
	})
}

// ComputeCGPA extracts grades from text and averages them.
func ComputeCGPA(text string) ([]float64, float64, error) {
	grades := ExtractGrades(text)
	if len(grades) == 0 {
		return nil, 0, shared.ErrNoGrades
	}
	return grades, lo.Mean(grades), nil
}

package student

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeSubject collapses whitespace and title-cases each word, so
// "data  STRUCTURES " becomes "Data Structures".
func NormalizeSubject(raw string) string {
	collapsed := strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
	return cases.Title(language.English).String(collapsed)
}

// Tier buckets an average grade on the 0-10 scale.
type Tier int

const (
	TierImproving Tier = iota
	TierGood
	TierVeryGood
	TierExcellent
)

// TierFor classifies an average.
func TierFor(avg float64) Tier {
	switch {
	case avg >= 8.5:
		return TierExcellent
	case avg >= 7.5:
		return TierVeryGood
	case avg >= 6.5:
		return TierGood
	default:
		return TierImproving
	}
}

// Label returns the tier as shown next to an average.
func (t Tier) Label() string {
	switch t {
	case TierExcellent:
		return "🌟 Excellent"
	case TierVeryGood:
		return "👍 Very Good"
	case TierGood:
		return "✅ Good"
	default:
		return "📈 Improving"
	}
}

// SubjectSummary is one subject line of the progress view.
type SubjectSummary struct {
	Name    string
	Grades  []float64
	Average float64
	Tier    Tier
}

// Progress is the derived academic summary of a record.
type Progress struct {
	Subjects    []SubjectSummary
	OverallCGPA float64
}

// Progress summarises every subject that has at least one grade, in
// alphabetical order. OverallCGPA is the mean of the per-subject means.
func (r *Record) Progress() Progress {
	names := lo.Filter(r.SubjectNames(), func(name string, _ int) bool {
		return len(r.Subjects[name]) > 0
	})

	subjects := lo.Map(names, func(name string, _ int) SubjectSummary {
		grades := r.Subjects[name]
		avg := lo.Mean(grades)
		return SubjectSummary{
			Name:    name,
			Grades:  append([]float64(nil), grades...),
			Average: avg,
			Tier:    TierFor(avg),
		}
	})

	p := Progress{Subjects: subjects}
	if len(subjects) > 0 {
		p.OverallCGPA = lo.Mean(lo.Map(subjects, func(s SubjectSummary, _ int) float64 {
			return s.Average
		}))
	}
	return p
}

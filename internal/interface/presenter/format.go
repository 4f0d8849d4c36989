// Package presenter turns records and command results into the chat texts
// shown in the terminal. Everything here is pure string formatting.
package presenter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// FormatGrade prints a grade the way it was always shown: integral values
// keep one decimal place ("8.0"), others print as entered ("8.25").
func FormatGrade(g float64) string {
	s := strconv.FormatFloat(g, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FormatGrades prints a grade list as "[8.0, 9.5]".
func FormatGrades(grades []float64) string {
	return "[" + strings.Join(lo.Map(grades, func(g float64, _ int) string {
		return FormatGrade(g)
	}), ", ") + "]"
}

// FormatAverage prints an average with two decimals.
func FormatAverage(avg float64) string {
	return fmt.Sprintf("%.2f", avg)
}

func rule(width int) string { return strings.Repeat("=", width) }

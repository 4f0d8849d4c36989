package reminder

import (
	"regexp"
	"strings"

	"github.com/studyhelper/student-helper-bot/internal/domain/shared"
)

var (
	connectorAt   = regexp.MustCompile(`(?i)\bat\b`)
	connectorIn   = regexp.MustCompile(`(?i)\bin\b`)
	commandPrefix = regexp.MustCompile(`(?i)set\s+reminder|remind\s+me`)
	spaces        = regexp.MustCompile(`\s+`)
)

// SplitCommand separates a reminder command into its task and time phrase.
//
// The first whole word "at" splits the text; without one the first whole
// word "in" does, and "in " is kept at the front of the phrase so relative
// durations still parse. Words that merely contain those letters ("math",
// "reminder") are not connectors.
func SplitCommand(text string) (task, phrase string, err error) {
	var left, right string

	if loc := connectorAt.FindStringIndex(text); loc != nil {
		left, right = text[:loc[0]], strings.TrimSpace(text[loc[1]:])
		phrase = right
	} else if loc := connectorIn.FindStringIndex(text); loc != nil {
		left, right = text[:loc[0]], strings.TrimSpace(text[loc[1]:])
		if right != "" {
			phrase = "in " + right
		}
	} else {
		return "", "", shared.ErrReminderFormat
	}

	task = commandPrefix.ReplaceAllString(left, "")
	task = strings.TrimSpace(spaces.ReplaceAllString(task, " "))

	if task == "" || phrase == "" {
		return "", "", shared.ErrReminderIncomplete
	}
	return task, phrase, nil
}

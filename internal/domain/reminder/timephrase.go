package reminder

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

// DefaultDelay is used when a phrase cannot be understood.
const DefaultDelay = 5 * time.Minute

var (
	firstNumber = regexp.MustCompile(`(\d+)`)
	clockTime   = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(am|pm)?`)
)

// Result is the outcome of parsing a time phrase.
type Result struct {
	Due     time.Time
	Display string
	// Defaulted is true when nothing in the phrase was recognised.
	Defaulted bool
}

// ParseTimePhrase turns phrases like "in 10 minutes", "in 2 hours" or
// "7:30pm" into an absolute time relative to now. Rules are tried in order:
// relative minutes, relative hours, clock time, then a five minute default.
// A clock time that is not after now is moved to the next day.
func ParseTimePhrase(phrase string, now time.Time) Result {
	p := strings.ToLower(strings.TrimSpace(phrase))

	if strings.Contains(p, "in") && strings.Contains(p, "minute") {
		if n, ok := leadingNumber(p); ok && fitsDuration(n, time.Minute) {
			return Result{
				Due:     now.Add(time.Duration(n) * time.Minute),
				Display: fmt.Sprintf("in %d minutes", n),
			}
		}
	}

	if strings.Contains(p, "in") && strings.Contains(p, "hour") {
		if n, ok := leadingNumber(p); ok && fitsDuration(n, time.Hour) {
			return Result{
				Due:     now.Add(time.Duration(n) * time.Hour),
				Display: fmt.Sprintf("in %d hours", n),
			}
		}
	}

	if m := clockTime.FindStringSubmatch(p); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])

		switch {
		case m[3] == "pm" && hour != 12:
			hour += 12
		case m[3] == "am" && hour == 12:
			hour = 0
		}

		if hour <= 23 && minute <= 59 {
			due := timeutil.AtClock(now, hour, minute)
			if !due.After(now) {
				due = due.AddDate(0, 0, 1)
			}
			return Result{
				Due:     due,
				Display: fmt.Sprintf("at %02d:%02d", hour, minute),
			}
		}
	}

	return Result{
		Due:       now.Add(DefaultDelay),
		Display:   "in 5 minutes (default)",
		Defaulted: true,
	}
}

// fitsDuration reports whether n units can be held in a time.Duration.
// Larger counts fall through to the next rule.
func fitsDuration(n int, unit time.Duration) bool {
	return int64(n) <= math.MaxInt64/int64(unit)
}

func leadingNumber(s string) (int, bool) {
	m := firstNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

package scheduler

import (
	"fmt"
	"time"
)

// MinInterval keeps a misconfigured poller from spinning.
const MinInterval = time.Second

// IntervalSchedule runs a job every Interval.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a schedule, raising interval to MinInterval.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	if interval < MinInterval {
		interval = MinInterval
	}
	return &IntervalSchedule{Interval: interval}
}

// Next returns the next scheduled time.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval)
}

// Package attendance derives participant status classifications and summary
// statistics from raw join/leave timestamps. Everything here is a pure
// function of its inputs; nothing is read from storage or the clock.
package attendance

import (
	"time"

	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/internal/recordings"
)

// Status buckets for a participant's attendance.
const (
	StatusPresent   = "present"
	StatusLate      = "late"
	StatusLeftEarly = "left-early"
)

// Classify buckets one participant against the scheduled meeting window.
// Lateness is computed first from the join time; the left-early check runs
// afterwards and overwrites it, so a participant who joined late AND left
// early is reported as left-early. That evaluation order is deliberate and
// pinned by tests.
func Classify(joinedAt time.Time, leftAt *time.Time, start, end time.Time, grace time.Duration) string {
	status := StatusPresent
	if joinedAt.After(start.Add(grace)) {
		status = StatusLate
	}
	if leftAt != nil && leftAt.Before(end) {
		status = StatusLeftEarly
	}
	return status
}

// WatchDuration is how long the participant was in the meeting. An open
// row (no leave yet) counts as zero rather than guessing an end.
func WatchDuration(p models.Participant) time.Duration {
	if p.LeftAt == nil {
		return 0
	}
	d := p.LeftAt.Sub(p.JoinedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Summary holds the aggregate statistics for one recording's attendance.
type Summary struct {
	Total           int    `json:"total"`
	Present         int    `json:"present"`
	Late            int    `json:"late"`
	LeftEarly       int    `json:"left_early"`
	AverageDuration string `json:"average_duration"`
}

// Summarize computes counts per status bucket and the mean watch duration,
// formatted "{hours}h {minutes}m". Zero participants reports "0h 00m",
// never an error.
func Summarize(list []models.Participant, start, end time.Time, grace time.Duration) Summary {
	s := Summary{Total: len(list), AverageDuration: recordings.FormatDuration(0)}
	if len(list) == 0 {
		return s
	}
	var total time.Duration
	for _, p := range list {
		switch Classify(p.JoinedAt, p.LeftAt, start, end, grace) {
		case StatusPresent:
			s.Present++
		case StatusLate:
			s.Late++
		case StatusLeftEarly:
			s.LeftEarly++
		}
		total += WatchDuration(p)
	}
	s.AverageDuration = recordings.FormatDuration(total / time.Duration(len(list)))
	return s
}

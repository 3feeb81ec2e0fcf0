package recordings

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/meetcapture/backend/internal/models"
)

// Layouts for the stored date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "3:04 PM"
)

var durationPart = regexp.MustCompile(`(?i)(\d+)\s*([a-z]*)`)

// ParseDuration parses the free-form duration strings the dashboard has
// always used: "60 min", "45m", "1h 30m", "1h". A bare number means minutes.
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPart.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("unparseable duration %q", s)
	}
	var total time.Duration
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("unparseable duration %q", s)
		}
		switch strings.ToLower(m[2]) {
		case "h", "hr", "hrs", "hour", "hours":
			total += time.Duration(n) * time.Hour
		case "", "m", "min", "mins", "minute", "minutes":
			total += time.Duration(n) * time.Minute
		default:
			return 0, fmt.Errorf("unparseable duration %q", s)
		}
	}
	if total <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return total, nil
}

// FormatDuration renders a duration the way the dashboard displays it,
// e.g. "1h 05m"; zero renders as "0h 00m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", h, m)
}

// FinalDuration renders a finished live session's length for storage in the
// recording's duration field. That field must round-trip through
// ParseDuration (Window depends on it), and FormatDuration renders anything
// under a minute as "0h 00m", which ParseDuration rejects. Sub-minute
// sessions clamp up to one minute.
func FinalDuration(d time.Duration) string {
	if d < time.Minute {
		d = time.Minute
	}
	return FormatDuration(d)
}

// Window returns the scheduled meeting window (start, end) derived from the
// recording's date, time and duration fields. The system tracks no separate
// actual end; the scheduled end is authoritative for attendance.
func Window(rec *models.Recording) (time.Time, time.Time, error) {
	day, err := time.Parse(DateLayout, rec.Date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("recording date: %w", err)
	}
	clock, err := time.Parse(TimeLayout, rec.Time)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("recording time: %w", err)
	}
	length, err := ParseDuration(rec.Duration)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("recording duration: %w", err)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	return start, start.Add(length), nil
}

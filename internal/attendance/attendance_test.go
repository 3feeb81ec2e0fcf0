package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meetcapture/backend/internal/models"
)

var (
	start = time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)
	end   = start.Add(time.Hour)
)

func ptr(t time.Time) *time.Time { return &t }

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		joined time.Time
		left   *time.Time
		grace  time.Duration
		want   string
	}{
		{"on time, stayed", start, ptr(end), 0, StatusPresent},
		{"on time, stayed past end", start, ptr(end.Add(time.Minute)), 0, StatusPresent},
		{"on time, never logged leave", start, nil, 0, StatusPresent},
		{"joined after start", start.Add(time.Minute), ptr(end), 0, StatusLate},
		{"left before end", start, ptr(end.Add(-time.Minute)), 0, StatusLeftEarly},
		{"late and left early", start.Add(10 * time.Minute), ptr(end.Add(-10 * time.Minute)), 0, StatusLeftEarly},
		{"within grace", start.Add(4 * time.Minute), ptr(end), 5 * time.Minute, StatusPresent},
		{"past grace", start.Add(6 * time.Minute), ptr(end), 5 * time.Minute, StatusLate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.joined, tc.left, start, end, tc.grace))
		})
	}
}

func TestWatchDuration(t *testing.T) {
	p := models.Participant{JoinedAt: start, LeftAt: ptr(start.Add(25 * time.Minute))}
	require.Equal(t, 25*time.Minute, WatchDuration(p))

	open := models.Participant{JoinedAt: start}
	require.Equal(t, time.Duration(0), WatchDuration(open))
}

func TestSummarize(t *testing.T) {
	list := []models.Participant{
		{Name: "a", JoinedAt: start, LeftAt: ptr(end)},                                            // present, 60m
		{Name: "b", JoinedAt: start.Add(10 * time.Minute), LeftAt: ptr(end)},                      // late, 50m
		{Name: "c", JoinedAt: start, LeftAt: ptr(end.Add(-20 * time.Minute))},                     // left early, 40m
		{Name: "d", JoinedAt: start.Add(5 * time.Minute), LeftAt: ptr(end.Add(-5 * time.Minute))}, // late + left early, 50m
	}
	s := Summarize(list, start, end, 0)
	require.Equal(t, 4, s.Total)
	require.Equal(t, 1, s.Present)
	require.Equal(t, 1, s.Late)
	require.Equal(t, 2, s.LeftEarly)
	require.Equal(t, "0h 50m", s.AverageDuration)
}

func TestSummarizeNoParticipants(t *testing.T) {
	s := Summarize(nil, start, end, 0)
	require.Equal(t, 0, s.Total)
	require.Equal(t, "0h 00m", s.AverageDuration)
}

package recordings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meetcapture/backend/internal/models"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"60 min", 60 * time.Minute},
		{"45m", 45 * time.Minute},
		{"90", 90 * time.Minute},
		{"1h", time.Hour},
		{"1h 30m", 90 * time.Minute},
		{"2 hours", 2 * time.Hour},
		{"1 hr 5 mins", 65 * time.Minute},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseDurationRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "soon", "0 min", "10 fortnights"} {
		_, err := ParseDuration(in)
		require.Error(t, err, in)
	}
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "0h 00m", FormatDuration(0))
	require.Equal(t, "0h 45m", FormatDuration(45*time.Minute))
	require.Equal(t, "1h 05m", FormatDuration(65*time.Minute))
	require.Equal(t, "2h 00m", FormatDuration(2*time.Hour))
	require.Equal(t, "0h 00m", FormatDuration(-time.Minute))
}

func TestFinalDurationRoundTrips(t *testing.T) {
	for _, d := range []time.Duration{0, 15 * time.Second, 59 * time.Second, time.Minute, 90 * time.Minute} {
		stored := FinalDuration(d)
		parsed, err := ParseDuration(stored)
		require.NoError(t, err, stored)
		require.Positive(t, parsed, stored)
	}
	require.Equal(t, "0h 01m", FinalDuration(15*time.Second))
	require.Equal(t, "1h 30m", FinalDuration(90*time.Minute))
}

func TestFinalDurationSurvivesWindow(t *testing.T) {
	rec := &models.Recording{
		Date:     "2026-03-10",
		Time:     "2:30 PM",
		Duration: FinalDuration(15 * time.Second),
	}
	_, _, err := Window(rec)
	require.NoError(t, err)
}

func TestWindow(t *testing.T) {
	rec := &models.Recording{
		Date:     "2026-03-10",
		Time:     "2:30 PM",
		Duration: "1h 30m",
	}
	start, end, err := Window(rec)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), start)
	require.Equal(t, start.Add(90*time.Minute), end)
}

func TestWindowBadDate(t *testing.T) {
	rec := &models.Recording{Date: "10/03/2026", Time: "2:30 PM", Duration: "60 min"}
	_, _, err := Window(rec)
	require.Error(t, err)
}

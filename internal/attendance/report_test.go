package attendance

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meetcapture/backend/internal/models"
)

func testRecording() *models.Recording {
	return &models.Recording{
		ID:       uuid.New(),
		Title:    "Quarterly review",
		Date:     "2026-04-01",
		Time:     "2:00 PM",
		Duration: "60 min",
		Status:   models.RecordingStatusProcessed,
	}
}

func TestBuildReport(t *testing.T) {
	rec := testRecording()
	list := []models.Participant{
		{Name: "Ada", Email: "ada@example.com", JoinedAt: start, LeftAt: ptr(end)},
		{Name: "Ben", Email: "ben@example.com", JoinedAt: start.Add(15 * time.Minute), LeftAt: ptr(end)},
	}

	report, err := BuildReport(rec, list, 0)
	require.NoError(t, err)
	require.Equal(t, rec.ID.String(), report.RecordingID)
	require.Equal(t, rec.Title, report.Title)
	require.Len(t, report.Rows, 2)
	require.Equal(t, StatusPresent, report.Rows[0].Status)
	require.Equal(t, "1h 00m", report.Rows[0].Duration)
	require.Equal(t, StatusLate, report.Rows[1].Status)
	require.Equal(t, "0h 45m", report.Rows[1].Duration)
	require.Equal(t, 2, report.Summary.Total)
}

func TestBuildReportBadWindow(t *testing.T) {
	rec := testRecording()
	rec.Duration = "whenever"
	_, err := BuildReport(rec, nil, 0)
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	rec := testRecording()
	list := []models.Participant{
		{Name: "Ada", Email: "ada@example.com", JoinedAt: start, LeftAt: ptr(end)},
		{Name: "Cyd", Email: "cyd@example.com", JoinedAt: start}, // still open
	}
	report, err := BuildReport(rec, list, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, csvHeader, rows[0])
	require.Equal(t, "Ada", rows[1][0])
	require.Equal(t, start.Format(time.RFC3339), rows[1][2])
	require.Equal(t, "", rows[2][3]) // no leave logged
}

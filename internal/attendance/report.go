package attendance

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/internal/recordings"
)

// Row is one participant in the tabular report shape consumed by exporters.
type Row struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	JoinedAt string `json:"joined_at"`
	LeftAt   string `json:"left_at,omitempty"`
	Duration string `json:"duration"`
	Status   string `json:"status"`
}

// Report is a recording's attendance in plain tabular form plus its summary.
type Report struct {
	RecordingID string  `json:"recording_id"`
	Title       string  `json:"title"`
	Rows        []Row   `json:"rows"`
	Summary     Summary `json:"summary"`
}

// BuildReport derives the report for one recording. The scheduled window
// comes from the recording's own date/time/duration fields.
func BuildReport(rec *models.Recording, list []models.Participant, grace time.Duration) (*Report, error) {
	start, end, err := recordings.Window(rec)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(list))
	for _, p := range list {
		row := Row{
			Name:     p.Name,
			Email:    p.Email,
			JoinedAt: p.JoinedAt.Format(time.RFC3339),
			Duration: recordings.FormatDuration(WatchDuration(p)),
			Status:   Classify(p.JoinedAt, p.LeftAt, start, end, grace),
		}
		if p.LeftAt != nil {
			row.LeftAt = p.LeftAt.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return &Report{
		RecordingID: rec.ID.String(),
		Title:       rec.Title,
		Rows:        rows,
		Summary:     Summarize(list, start, end, grace),
	}, nil
}

// csvHeader is the column order for CSV exports.
var csvHeader = []string{"name", "email", "joined_at", "left_at", "duration", "status"}

// WriteCSV renders the report rows as CSV.
func WriteCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range report.Rows {
		if err := cw.Write([]string{r.Name, r.Email, r.JoinedAt, r.LeftAt, r.Duration, r.Status}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

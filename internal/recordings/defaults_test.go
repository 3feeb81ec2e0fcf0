package recordings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meetcapture/backend/internal/models"
)

func TestApplyDefaultsFillsOmittedFields(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	in := ApplyDefaults(CreateInput{
		Title:    "Weekly sync",
		MeetLink: "https://meet.example.com/abc",
	}, now)

	require.Equal(t, "2026-05-04", in.Date)
	require.Equal(t, "12:00 PM", in.Time)
	require.Equal(t, "60 min", in.Duration)
	require.Equal(t, models.QualityHD, in.Quality)
	require.Equal(t, models.StorageGoogleDrive, in.Storage)
	require.NoError(t, Validate(in))
}

func TestApplyDefaultsKeepsProvidedFields(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	in := ApplyDefaults(CreateInput{
		Title:    "Standup",
		MeetLink: "https://meet.example.com/xyz",
		Date:     "2026-06-01",
		Time:     "9:15 AM",
		Duration: "15 min",
		Quality:  models.QualityFHD,
		Storage:  models.StorageCloud,
	}, now)

	require.Equal(t, "2026-06-01", in.Date)
	require.Equal(t, "9:15 AM", in.Time)
	require.Equal(t, "15 min", in.Duration)
	require.Equal(t, models.QualityFHD, in.Quality)
	require.Equal(t, models.StorageCloud, in.Storage)
}

func TestValidateRejections(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	base := CreateInput{Title: "Sync", MeetLink: "https://meet.example.com/abc"}

	cases := []struct {
		name   string
		mutate func(*CreateInput)
		field  string
	}{
		{"empty title", func(in *CreateInput) { in.Title = "" }, "title"},
		{"empty link", func(in *CreateInput) { in.MeetLink = "" }, "meet_link"},
		{"relative link", func(in *CreateInput) { in.MeetLink = "not a url" }, "meet_link"},
		{"bad date", func(in *CreateInput) { in.Date = "04-05-2026" }, "date"},
		{"bad time", func(in *CreateInput) { in.Time = "25:00" }, "time"},
		{"bad duration", func(in *CreateInput) { in.Duration = "soon" }, "duration"},
		{"bad quality", func(in *CreateInput) { in.Quality = "8k" }, "quality"},
		{"bad storage", func(in *CreateInput) { in.Storage = "floppy" }, "storage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := ApplyDefaults(base, now)
			tc.mutate(&in)
			err := Validate(in)
			require.Error(t, err)
			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
		})
	}
}

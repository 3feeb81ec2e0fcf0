package models

import (
	"time"

	"github.com/google/uuid"
)

// Recording lifecycle states. Transitions are monotonic:
// upcoming -> processing -> processed. There is no reverse path.
const (
	RecordingStatusUpcoming   = "upcoming"
	RecordingStatusProcessing = "processing"
	RecordingStatusProcessed  = "processed"
)

// Recording quality presets.
const (
	QualitySD  = "sd"
	QualityHD  = "hd"
	QualityFHD = "fhd"
)

// Storage backends for the processed video file.
const (
	StorageGoogleDrive = "google-drive"
	StorageLocal       = "local-storage"
	StorageCloud       = "cloud-storage"
)

// Recording is the metadata entity for one scheduled meeting capture.
// It never holds media; VideoURL points at the processed file and is
// set if and only if Status is processed.
type Recording struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	MeetLink         string    `json:"meet_link"`
	Date             string    `json:"date"`     // calendar date, "2006-01-02"
	Time             string    `json:"time"`     // wall-clock start, "3:04 PM"
	Duration         string    `json:"duration"` // free-form length, e.g. "60 min"
	Quality          string    `json:"quality"`
	Storage          string    `json:"storage"`
	Status           string    `json:"status"`
	ParticipantCount int       `json:"participant_count,omitempty"`
	VideoURL         string    `json:"video_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ValidQuality reports whether q is one of the supported quality presets.
func ValidQuality(q string) bool {
	switch q {
	case QualitySD, QualityHD, QualityFHD:
		return true
	}
	return false
}

// ValidStorage reports whether s is one of the supported storage backends.
func ValidStorage(s string) bool {
	switch s {
	case StorageGoogleDrive, StorageLocal, StorageCloud:
		return true
	}
	return false
}

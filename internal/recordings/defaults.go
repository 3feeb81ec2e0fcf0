package recordings

import (
	"net/url"
	"time"

	"github.com/meetcapture/backend/internal/models"
)

// Defaults applied to a scheduling request that omits optional fields.
const (
	DefaultDuration = "60 min"
	DefaultQuality  = models.QualityHD
	DefaultStorage  = models.StorageGoogleDrive
	DefaultTime     = "12:00 PM"
)

// nowFunc is swapped in tests to pin the default date.
var nowFunc = time.Now

// CreateInput is the scheduling request independent of transport. Empty
// optional fields are filled by ApplyDefaults before validation.
type CreateInput struct {
	Title    string `json:"title"`
	MeetLink string `json:"meet_link"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
	Quality  string `json:"quality"`
	Storage  string `json:"storage"`
}

// ApplyDefaults returns in with every omitted optional field populated:
// duration "60 min", quality hd, storage google-drive, date = today,
// time "12:00 PM". Title and meet link have no defaults; they are
// required and checked by Validate.
func ApplyDefaults(in CreateInput, now time.Time) CreateInput {
	if in.Date == "" {
		in.Date = now.Format(DateLayout)
	}
	if in.Time == "" {
		in.Time = DefaultTime
	}
	if in.Duration == "" {
		in.Duration = DefaultDuration
	}
	if in.Quality == "" {
		in.Quality = DefaultQuality
	}
	if in.Storage == "" {
		in.Storage = DefaultStorage
	}
	return in
}

// Validate checks a fully defaulted input. Failures are *models.ValidationError
// and never reach the backend.
func Validate(in CreateInput) error {
	if in.Title == "" {
		return &models.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if in.MeetLink == "" {
		return &models.ValidationError{Field: "meet_link", Reason: "must not be empty"}
	}
	u, err := url.Parse(in.MeetLink)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &models.ValidationError{Field: "meet_link", Reason: "must be a valid URL"}
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return &models.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if _, err := time.Parse(TimeLayout, in.Time); err != nil {
		return &models.ValidationError{Field: "time", Reason: `must be wall-clock time like "12:00 PM"`}
	}
	if _, err := ParseDuration(in.Duration); err != nil {
		return &models.ValidationError{Field: "duration", Reason: err.Error()}
	}
	if !models.ValidQuality(in.Quality) {
		return &models.ValidationError{Field: "quality", Reason: "must be sd, hd or fhd"}
	}
	if !models.ValidStorage(in.Storage) {
		return &models.ValidationError{Field: "storage", Reason: "must be google-drive, local-storage or cloud-storage"}
	}
	return nil
}

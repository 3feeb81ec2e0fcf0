package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one attendee's attendance record for a single recording.
// Only raw join/leave facts are stored; status and watch duration are
// derived at read time by the attendance package so they can never go
// stale relative to the timestamps they came from.
type Participant struct {
	ID          uuid.UUID  `json:"id"`
	RecordingID uuid.UUID  `json:"recording_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	JoinedAt    time.Time  `json:"joined_at"`
	LeftAt      *time.Time `json:"left_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

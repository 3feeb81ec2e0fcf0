package participants

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meetcapture/backend/internal/models"
)

// Repository handles participant attendance rows. Only raw join/leave
// timestamps are stored; classification happens at read time.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a participants repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByRecording returns all participants for a recording, join order.
// A recording with no participants yields an empty slice, not an error.
func (r *Repository) ListByRecording(ctx context.Context, recordingID uuid.UUID) ([]models.Participant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, recording_id, name, email, joined_at, left_at, created_at
		 FROM participants WHERE recording_id = $1 ORDER BY joined_at, id`, recordingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.RecordingID, &p.Name, &p.Email, &p.JoinedAt, &p.LeftAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// LogJoin inserts an attendance row when someone joins the meeting.
func (r *Repository) LogJoin(ctx context.Context, recordingID uuid.UUID, name, email string, joinedAt time.Time) (*models.Participant, error) {
	const q = `INSERT INTO participants (id, recording_id, name, email, joined_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at`
	p := &models.Participant{
		RecordingID: recordingID,
		Name:        name,
		Email:       email,
		JoinedAt:    joinedAt,
	}
	if err := r.pool.QueryRow(ctx, q, recordingID, name, email, joinedAt).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// LogLeave closes an open attendance row. The leave time is clamped to the
// join time so leftAt >= joinedAt always holds; closing an already closed
// row is a no-op.
func (r *Repository) LogLeave(ctx context.Context, participantID uuid.UUID, leftAt time.Time) (*models.Participant, error) {
	const q = `UPDATE participants
		SET left_at = GREATEST(joined_at, $2)
		WHERE id = $1 AND left_at IS NULL
		RETURNING id, recording_id, name, email, joined_at, left_at, created_at`
	var p models.Participant
	err := r.pool.QueryRow(ctx, q, participantID, leftAt).
		Scan(&p.ID, &p.RecordingID, &p.Name, &p.Email, &p.JoinedAt, &p.LeftAt, &p.CreatedAt)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// Either unknown id or already closed; a closed row makes retries idempotent.
	err = r.pool.QueryRow(ctx,
		`SELECT id, recording_id, name, email, joined_at, left_at, created_at FROM participants WHERE id = $1`,
		participantID).
		Scan(&p.ID, &p.RecordingID, &p.Name, &p.Email, &p.JoinedAt, &p.LeftAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

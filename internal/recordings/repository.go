package recordings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meetcapture/backend/internal/models"
)

const recordingColumns = `id, title, meet_link, date, time, duration, quality, storage, status, COALESCE(video_url,''),
	(SELECT COUNT(*) FROM participants p WHERE p.recording_id = recordings.id), created_at, updated_at`

// Repository is the persistence gateway for recordings. It is the single
// writer of truth; every caller-side copy is a cache that goes stale on
// the next mutating call.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a recordings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRecording(row pgx.Row) (*models.Recording, error) {
	var rec models.Recording
	err := row.Scan(&rec.ID, &rec.Title, &rec.MeetLink, &rec.Date, &rec.Time, &rec.Duration,
		&rec.Quality, &rec.Storage, &rec.Status, &rec.VideoURL, &rec.ParticipantCount,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) list(ctx context.Context, q string, args ...interface{}) ([]models.Recording, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *rec)
	}
	return list, rows.Err()
}

// ListUpcoming returns all recordings with status upcoming, soonest first.
func (r *Repository) ListUpcoming(ctx context.Context) ([]models.Recording, error) {
	return r.list(ctx, `SELECT `+recordingColumns+` FROM recordings
		WHERE status = $1 ORDER BY date, created_at, id`, models.RecordingStatusUpcoming)
}

// ListPast returns all recordings with status processing or processed, newest first.
func (r *Repository) ListPast(ctx context.Context) ([]models.Recording, error) {
	return r.list(ctx, `SELECT `+recordingColumns+` FROM recordings
		WHERE status IN ($1, $2) ORDER BY date DESC, created_at DESC, id`,
		models.RecordingStatusProcessing, models.RecordingStatusProcessed)
}

// GetByID returns a recording by ID, or models.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error) {
	rec, err := scanRecording(r.pool.QueryRow(ctx,
		`SELECT `+recordingColumns+` FROM recordings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Create validates input, fills documented defaults, and inserts a new
// recording with status upcoming. The database assigns the id. Validation
// failures return *models.ValidationError without touching storage.
func (r *Repository) Create(ctx context.Context, in CreateInput) (*models.Recording, error) {
	in = ApplyDefaults(in, nowFunc())
	if err := Validate(in); err != nil {
		return nil, err
	}
	const q = `INSERT INTO recordings (id, title, meet_link, date, time, duration, quality, storage, status)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	rec := &models.Recording{
		Title:    in.Title,
		MeetLink: in.MeetLink,
		Date:     in.Date,
		Time:     in.Time,
		Duration: in.Duration,
		Quality:  in.Quality,
		Storage:  in.Storage,
		Status:   models.RecordingStatusUpcoming,
	}
	err := r.pool.QueryRow(ctx, q, rec.Title, rec.MeetLink, rec.Date, rec.Time, rec.Duration,
		rec.Quality, rec.Storage, rec.Status).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes an upcoming recording. A missing id yields (false, nil)
// so that retries after a transient failure stay safe; a recording that
// already left the upcoming state yields models.ErrConflict.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM recordings WHERE id = $1 AND status = $2`, id, models.RecordingStatusUpcoming)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	var status string
	err = r.pool.QueryRow(ctx, `SELECT status FROM recordings WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return false, models.ErrConflict
}

// MarkProcessing moves a recording from upcoming to processing and records
// the final elapsed duration of the live session. The guarded update keeps
// the transition monotonic.
func (r *Repository) MarkProcessing(ctx context.Context, id uuid.UUID, finalDuration string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE recordings SET status = $1, duration = $2, updated_at = NOW() WHERE id = $3 AND status = $4`,
		models.RecordingStatusProcessing, finalDuration, id, models.RecordingStatusUpcoming)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionFailure(ctx, id)
	}
	return nil
}

// MarkProcessed moves a recording from processing to processed and sets the
// video URL. video_url is set in the same statement so the status/videoUrl
// invariant holds at every observable point.
func (r *Repository) MarkProcessed(ctx context.Context, id uuid.UUID, videoURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE recordings SET status = $1, video_url = $2, updated_at = NOW() WHERE id = $3 AND status = $4`,
		models.RecordingStatusProcessed, videoURL, id, models.RecordingStatusProcessing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionFailure(ctx, id)
	}
	return nil
}

// transitionFailure turns a zero-row guarded update into ErrNotFound or
// ErrConflict depending on whether the row exists at all.
func (r *Repository) transitionFailure(ctx context.Context, id uuid.UUID) error {
	var status string
	err := r.pool.QueryRow(ctx, `SELECT status FROM recordings WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}
	return models.ErrConflict
}

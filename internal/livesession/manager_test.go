package livesession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/pkg/queue"
)

type recordingEnqueuer struct {
	payloads []queue.RecordingProcessPayload
	err      error
}

func (e *recordingEnqueuer) EnqueueRecordingProcess(_ context.Context, payload queue.RecordingProcessPayload) error {
	if e.err != nil {
		return e.err
	}
	e.payloads = append(e.payloads, payload)
	return nil
}

func upcomingRecording() *models.Recording {
	return &models.Recording{ID: uuid.New(), Status: models.RecordingStatusUpcoming}
}

func TestManagerStartRejectsNonUpcoming(t *testing.T) {
	m := NewManager(&recordingEnqueuer{}, nil)
	rec := upcomingRecording()
	rec.Status = models.RecordingStatusProcessed

	_, err := m.Start(rec)
	require.ErrorIs(t, err, models.ErrConflict)
}

func TestManagerStartRejectsSecondStart(t *testing.T) {
	m := NewManager(&recordingEnqueuer{}, nil)
	rec := upcomingRecording()

	_, err := m.Start(rec)
	require.NoError(t, err)
	_, err = m.Start(rec)
	require.ErrorIs(t, err, models.ErrConflict)
	m.Shutdown()
}

func TestManagerStopHandsOffElapsed(t *testing.T) {
	q := &recordingEnqueuer{}
	m := NewManager(q, nil)
	rec := upcomingRecording()

	s, err := m.Start(rec)
	require.NoError(t, err)

	clock := &fakeClock{t: time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)}
	s.mu.Lock()
	s.now = clock.Now
	s.segmentStart = clock.t
	s.mu.Unlock()
	clock.Advance(42 * time.Second)

	elapsed, err := m.Stop(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Equal(t, 42, elapsed)
	require.Len(t, q.payloads, 1)
	require.Equal(t, rec.ID, q.payloads[0].RecordingID)
	require.Equal(t, 42, q.payloads[0].ElapsedSeconds)

	_, ok := m.Get(rec.ID)
	require.False(t, ok)
}

func TestManagerStopUnknownRecording(t *testing.T) {
	m := NewManager(&recordingEnqueuer{}, nil)
	_, err := m.Stop(context.Background(), uuid.New())
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestManagerStopSurfacesEnqueueFailure(t *testing.T) {
	q := &recordingEnqueuer{err: errors.New("redis down")}
	m := NewManager(q, nil)
	rec := upcomingRecording()

	_, err := m.Start(rec)
	require.NoError(t, err)

	_, err = m.Stop(context.Background(), rec.ID)
	require.Error(t, err)
}

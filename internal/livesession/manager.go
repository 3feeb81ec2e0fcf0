package livesession

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/pkg/queue"
)

// Enqueuer hands a finished live session to post-processing. The Redis
// queue is the live implementation; tests substitute a recorder.
type Enqueuer interface {
	EnqueueRecordingProcess(ctx context.Context, payload queue.RecordingProcessPayload) error
}

// Manager owns at most one live session per recording. The live state is
// ephemeral: nothing here touches the persistence gateway until Stop hands
// the recording off to the post-processing queue.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	queue    Enqueuer
	logger   *zap.Logger
}

// NewManager creates a live session manager.
func NewManager(q Enqueuer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		queue:    q,
		logger:   logger,
	}
}

// Start begins a live session for an upcoming recording with the counter
// at zero. A second Start for the same recording fails.
func (m *Manager) Start(rec *models.Recording) (*Session, error) {
	if rec.Status != models.RecordingStatusUpcoming {
		return nil, fmt.Errorf("recording %s is %s, not %s: %w",
			rec.ID, rec.Status, models.RecordingStatusUpcoming, models.ErrConflict)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[rec.ID]; exists {
		return nil, fmt.Errorf("recording %s already live: %w", rec.ID, models.ErrConflict)
	}
	s := newSession(rec.ID, m.logger)
	s.start()
	m.sessions[rec.ID] = s
	m.logger.Info("live session started", zap.String("recording_id", rec.ID.String()))
	return s, nil
}

// Get returns the live session for a recording, if any.
func (m *Manager) Get(recordingID uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[recordingID]
	return s, ok
}

// Stop halts the session's counter, removes it, and enqueues the
// post-processing job carrying the final elapsed seconds. The recording's
// processing/processed transitions happen in the worker, not here.
func (m *Manager) Stop(ctx context.Context, recordingID uuid.UUID) (int, error) {
	m.mu.Lock()
	s, ok := m.sessions[recordingID]
	if ok {
		delete(m.sessions, recordingID)
	}
	m.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("no live session for recording %s: %w", recordingID, models.ErrNotFound)
	}
	elapsed := s.stop()
	m.logger.Info("live session stopped",
		zap.String("recording_id", recordingID.String()),
		zap.Int("elapsed_sec", elapsed))
	if err := m.queue.EnqueueRecordingProcess(ctx, queue.RecordingProcessPayload{
		RecordingID:    recordingID,
		ElapsedSeconds: elapsed,
	}); err != nil {
		return elapsed, fmt.Errorf("enqueue post-processing: %w", err)
	}
	return elapsed, nil
}

// Shutdown stops every live tick source. Leaking one past process exit
// would be a defect even though the process is going away.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.stop()
		delete(m.sessions, id)
	}
}

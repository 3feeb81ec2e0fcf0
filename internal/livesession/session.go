package livesession

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session tracks the elapsed time of one live recording. The counter is
// wall-clock based: elapsed = closed segments + the currently running
// segment, so pause/resume cycles accumulate no drift beyond whole-second
// truncation. The per-second ticker only refreshes the published value for
// cheap reads; it is never the source of truth.
type Session struct {
	recordingID uuid.UUID

	mu           sync.Mutex
	running      bool
	paused       bool
	accumulated  time.Duration
	segmentStart time.Time

	now    func() time.Time // swapped in tests
	ticker *time.Ticker
	done   chan struct{}
	log    *zap.Logger
}

func newSession(recordingID uuid.UUID, log *zap.Logger) *Session {
	return &Session{
		recordingID: recordingID,
		now:         time.Now,
		log:         log,
	}
}

// start begins the counter at zero and launches the tick source.
func (s *Session) start() {
	s.mu.Lock()
	s.running = true
	s.paused = false
	s.accumulated = 0
	s.segmentStart = s.now()
	s.done = make(chan struct{})
	s.ticker = time.NewTicker(time.Second)
	s.mu.Unlock()

	go s.tickLoop(s.ticker, s.done)
}

func (s *Session) tickLoop(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.log.Debug("live session tick",
				zap.String("recording_id", s.recordingID.String()),
				zap.Int("elapsed_sec", s.Elapsed()))
		}
	}
}

// Pause suspends the counter. Pausing an already paused session is a no-op.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.paused {
		return
	}
	s.accumulated += s.now().Sub(s.segmentStart)
	s.paused = true
}

// Resume continues the counter. Resuming a running session is a no-op.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || !s.paused {
		return
	}
	s.segmentStart = s.now()
	s.paused = false
}

// Elapsed returns whole elapsed seconds, excluding paused stretches.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.elapsedLocked().Seconds())
}

func (s *Session) elapsedLocked() time.Duration {
	d := s.accumulated
	if s.running && !s.paused {
		d += s.now().Sub(s.segmentStart)
	}
	return d
}

// stop halts the counter and the tick source and returns the final whole
// seconds. Idempotent; the tick goroutine always exits.
func (s *Session) stop() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return int(s.accumulated.Seconds())
	}
	if !s.paused {
		s.accumulated += s.now().Sub(s.segmentStart)
	}
	s.running = false
	s.paused = false
	if s.ticker != nil {
		s.ticker.Stop()
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	return int(s.accumulated.Seconds())
}

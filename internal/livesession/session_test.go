package livesession

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(c *fakeClock) *Session {
	s := newSession(uuid.New(), zap.NewNop())
	s.now = c.Now
	s.start()
	return s
}

func TestSessionPauseResumeAccumulation(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)}
	s := newTestSession(clock)

	clock.Advance(10 * time.Second)
	s.Pause()

	// Paused time never counts.
	clock.Advance(7 * time.Second)
	require.Equal(t, 10, s.Elapsed())

	s.Resume()
	clock.Advance(5 * time.Second)
	require.Equal(t, 15, s.stop())
}

func TestSessionPauseResumeIdempotent(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)}
	s := newTestSession(clock)

	clock.Advance(3 * time.Second)
	s.Pause()
	s.Pause()
	clock.Advance(time.Minute)
	require.Equal(t, 3, s.Elapsed())

	s.Resume()
	s.Resume()
	clock.Advance(2 * time.Second)
	require.Equal(t, 5, s.Elapsed())
	s.stop()
}

func TestSessionStopIdempotent(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)}
	s := newTestSession(clock)

	clock.Advance(8 * time.Second)
	require.Equal(t, 8, s.stop())

	// Further clock movement changes nothing once stopped.
	clock.Advance(time.Hour)
	require.Equal(t, 8, s.stop())
	require.Equal(t, 8, s.Elapsed())
}

func TestSessionStopWhilePaused(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)}
	s := newTestSession(clock)

	clock.Advance(12 * time.Second)
	s.Pause()
	clock.Advance(30 * time.Second)
	require.Equal(t, 12, s.stop())
}

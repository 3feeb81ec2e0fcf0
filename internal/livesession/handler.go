package livesession

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/pkg/response"
)

// RecordingSource fetches the recording being taken live.
type RecordingSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error)
}

// Handler handles live session HTTP endpoints.
type Handler struct {
	manager    *Manager
	recordings RecordingSource
	logger     *zap.Logger
}

// NewHandler creates a live session handler.
func NewHandler(manager *Manager, recordings RecordingSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{manager: manager, recordings: recordings, logger: logger}
}

func (h *Handler) recordingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return uuid.Nil, false
	}
	return id, true
}

// Start handles POST /recordings/:id/live/start.
func (h *Handler) Start(c *gin.Context) {
	id, ok := h.recordingID(c)
	if !ok {
		return
	}
	rec, err := h.recordings.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "recording not found")
		return
	}
	s, err := h.manager.Start(rec)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			response.Conflict(c, err.Error())
			return
		}
		h.logger.Error("start live session failed", zap.Error(err), zap.String("recording_id", id.String()))
		response.Internal(c, "failed to start live session")
		return
	}
	response.OK(c, gin.H{"recording_id": id, "elapsed_sec": s.Elapsed(), "paused": false})
}

// Pause handles POST /recordings/:id/live/pause. Pausing twice is a no-op.
func (h *Handler) Pause(c *gin.Context) {
	id, ok := h.recordingID(c)
	if !ok {
		return
	}
	s, found := h.manager.Get(id)
	if !found {
		response.NotFound(c, "no live session for recording")
		return
	}
	s.Pause()
	response.OK(c, gin.H{"recording_id": id, "elapsed_sec": s.Elapsed(), "paused": true})
}

// Resume handles POST /recordings/:id/live/resume. Resuming twice is a no-op.
func (h *Handler) Resume(c *gin.Context) {
	id, ok := h.recordingID(c)
	if !ok {
		return
	}
	s, found := h.manager.Get(id)
	if !found {
		response.NotFound(c, "no live session for recording")
		return
	}
	s.Resume()
	response.OK(c, gin.H{"recording_id": id, "elapsed_sec": s.Elapsed(), "paused": false})
}

// Stop handles POST /recordings/:id/live/stop.
func (h *Handler) Stop(c *gin.Context) {
	id, ok := h.recordingID(c)
	if !ok {
		return
	}
	elapsed, err := h.manager.Stop(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "no live session for recording")
			return
		}
		// The counter stopped but the handoff failed; surface it so the
		// caller can retry rather than assume processing began.
		h.logger.Error("live session handoff failed", zap.Error(err), zap.String("recording_id", id.String()))
		response.Internal(c, "failed to hand off recording for processing")
		return
	}
	response.OK(c, gin.H{"recording_id": id, "elapsed_sec": elapsed})
}

// Elapsed handles GET /recordings/:id/live.
func (h *Handler) Elapsed(c *gin.Context) {
	id, ok := h.recordingID(c)
	if !ok {
		return
	}
	s, found := h.manager.Get(id)
	if !found {
		response.NotFound(c, "no live session for recording")
		return
	}
	response.OK(c, gin.H{"recording_id": id, "elapsed_sec": s.Elapsed()})
}

package participants

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetcapture/backend/pkg/response"
)

// JoinRequest is the body for POST /recordings/:id/participants.
type JoinRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	JoinedAt string `json:"joined_at"` // RFC3339; defaults to now
}

// LeaveRequest is the body for POST /recordings/:id/participants/:pid/leave.
type LeaveRequest struct {
	LeftAt string `json:"left_at"` // RFC3339; defaults to now
}

// Handler handles participant HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a participants handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

func parseStamp(s string, fallback time.Time) (time.Time, bool) {
	if s == "" {
		return fallback, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// List handles GET /recordings/:id/participants.
func (h *Handler) List(c *gin.Context) {
	recordingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return
	}
	list, err := h.repo.ListByRecording(c.Request.Context(), recordingID)
	if err != nil {
		h.logger.Error("list participants failed", zap.Error(err), zap.String("recording_id", recordingID.String()))
		response.Internal(c, "failed to list participants")
		return
	}
	response.OK(c, list)
}

// Join handles POST /recordings/:id/participants.
func (h *Handler) Join(c *gin.Context) {
	recordingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return
	}
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	joinedAt, ok := parseStamp(req.JoinedAt, time.Now().UTC())
	if !ok {
		response.BadRequest(c, "invalid joined_at")
		return
	}
	p, err := h.repo.LogJoin(c.Request.Context(), recordingID, req.Name, req.Email, joinedAt)
	if err != nil {
		h.logger.Error("log join failed", zap.Error(err), zap.String("recording_id", recordingID.String()))
		response.Internal(c, "failed to record join")
		return
	}
	response.Created(c, p)
}

// Leave handles POST /recordings/:id/participants/:pid/leave.
func (h *Handler) Leave(c *gin.Context) {
	participantID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		response.BadRequest(c, "invalid participant id")
		return
	}
	var req LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	leftAt, ok := parseStamp(req.LeftAt, time.Now().UTC())
	if !ok {
		response.BadRequest(c, "invalid left_at")
		return
	}
	p, err := h.repo.LogLeave(c.Request.Context(), participantID, leftAt)
	if err != nil {
		response.FromError(c, err, "participant not found")
		return
	}
	response.OK(c, p)
}

package attendance

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/pkg/response"
)

// RecordingSource fetches the recording whose window anchors classification.
type RecordingSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error)
}

// ParticipantSource fetches raw attendance rows.
type ParticipantSource interface {
	ListByRecording(ctx context.Context, recordingID uuid.UUID) ([]models.Participant, error)
}

// Handler serves attendance reports for a recording.
type Handler struct {
	recordings   RecordingSource
	participants ParticipantSource
	grace        time.Duration
	logger       *zap.Logger
}

// NewHandler creates an attendance handler. grace is the configured
// join-time tolerance before a participant counts as late.
func NewHandler(rec RecordingSource, parts ParticipantSource, grace time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{recordings: rec, participants: parts, grace: grace, logger: logger}
}

func (h *Handler) buildReport(c *gin.Context) (*Report, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return nil, false
	}
	ctx := c.Request.Context()
	rec, err := h.recordings.GetByID(ctx, id)
	if err != nil {
		response.FromError(c, err, "recording not found")
		return nil, false
	}
	list, err := h.participants.ListByRecording(ctx, id)
	if err != nil {
		h.logger.Error("list participants failed", zap.Error(err), zap.String("recording_id", id.String()))
		response.Internal(c, "failed to load attendance")
		return nil, false
	}
	report, err := BuildReport(rec, list, h.grace)
	if err != nil {
		h.logger.Error("build attendance report failed", zap.Error(err), zap.String("recording_id", id.String()))
		response.Internal(c, "failed to build attendance report")
		return nil, false
	}
	return report, true
}

// Get handles GET /recordings/:id/attendance.
func (h *Handler) Get(c *gin.Context) {
	report, ok := h.buildReport(c)
	if !ok {
		return
	}
	response.OK(c, report)
}

// ExportCSV handles GET /recordings/:id/attendance/export.
func (h *Handler) ExportCSV(c *gin.Context) {
	report, ok := h.buildReport(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, report); err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
		response.Internal(c, "failed to export attendance")
		return
	}
	filename := fmt.Sprintf("attendance-%s.csv", report.RecordingID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

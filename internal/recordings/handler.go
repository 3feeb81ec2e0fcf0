package recordings

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/pkg/response"
	"github.com/meetcapture/backend/pkg/storage"
)

// Gateway is the persistence contract the handler depends on. *Repository
// is the live implementation; tests substitute an in-memory double.
type Gateway interface {
	ListUpcoming(ctx context.Context) ([]models.Recording, error)
	ListPast(ctx context.Context) ([]models.Recording, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error)
	Create(ctx context.Context, in CreateInput) (*models.Recording, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Handler handles recording HTTP endpoints.
type Handler struct {
	gateway Gateway
	cache   *ListCache
	s3      *storage.S3 // optional: presigned downloads for cloud-storage recordings
	logger  *zap.Logger
}

// NewHandler creates a recordings handler.
func NewHandler(gateway Gateway, cache *ListCache, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gateway: gateway, cache: cache, s3: s3, logger: logger}
}

// ListUpcoming handles GET /recordings/upcoming.
func (h *Handler) ListUpcoming(c *gin.Context) {
	ctx := c.Request.Context()
	if list, ok := h.cache.GetUpcoming(ctx); ok {
		response.OK(c, list)
		return
	}
	list, err := h.gateway.ListUpcoming(ctx)
	if err != nil {
		h.logger.Error("list upcoming failed", zap.Error(err))
		response.Internal(c, "failed to list upcoming recordings")
		return
	}
	h.cache.SetUpcoming(ctx, list)
	response.OK(c, list)
}

// ListPast handles GET /recordings/past.
func (h *Handler) ListPast(c *gin.Context) {
	ctx := c.Request.Context()
	if list, ok := h.cache.GetPast(ctx); ok {
		response.OK(c, list)
		return
	}
	list, err := h.gateway.ListPast(ctx)
	if err != nil {
		h.logger.Error("list past failed", zap.Error(err))
		response.Internal(c, "failed to list past recordings")
		return
	}
	h.cache.SetPast(ctx, list)
	response.OK(c, list)
}

// GetByID handles GET /recordings/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return
	}
	rec, err := h.gateway.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "recording not found")
		return
	}
	response.OK(c, rec)
}

// Schedule handles POST /recordings: validates, fills defaults, creates
// with status upcoming. Validation errors come back as 400 without any
// backend mutation.
func (h *Handler) Schedule(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	rec, err := h.gateway.Create(c.Request.Context(), in)
	if err != nil {
		if models.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("schedule recording failed", zap.Error(err))
		response.Internal(c, "failed to schedule recording")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.Created(c, rec)
}

// CancelSchedule handles DELETE /recordings/:id. Only upcoming recordings
// can be cancelled. A missing id means the desired end state already
// holds, so it reports deleted=false with a 200, not an error.
func (h *Handler) CancelSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return
	}
	deleted, err := h.gateway.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			response.Conflict(c, "only upcoming recordings can be deleted")
			return
		}
		h.logger.Error("delete recording failed", zap.Error(err), zap.String("recording_id", id.String()))
		response.Internal(c, "failed to delete recording")
		return
	}
	if !deleted {
		h.logger.Info("delete of unknown recording treated as already removed", zap.String("recording_id", id.String()))
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, gin.H{"deleted": deleted})
}

// DownloadURL handles GET /recordings/:id/download-url. Only processed
// recordings have a video; cloud-storage ones get a presigned S3 URL,
// the rest return the stored video URL as-is.
func (h *Handler) DownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return
	}
	rec, err := h.gateway.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "recording not found")
		return
	}
	if rec.Status != models.RecordingStatusProcessed {
		response.BadRequest(c, "recording not ready for download")
		return
	}
	if rec.Storage != models.StorageCloud || h.s3 == nil {
		response.OK(c, gin.H{"download_url": rec.VideoURL})
		return
	}
	expire := h.s3.PresignExpire()
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(),
		h.s3.RecordingsBucket(), storage.RecordingKey(rec.ID.String()), expire)
	if err != nil {
		h.logger.Error("presign recording download failed", zap.Error(err), zap.String("recording_id", id.String()))
		response.Internal(c, "failed to generate download URL")
		return
	}
	response.OK(c, gin.H{"download_url": url, "expires_in": int(expire.Seconds())})
}

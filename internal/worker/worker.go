package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meetcapture/backend/config"
	"github.com/meetcapture/backend/internal/attendance"
	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/internal/participants"
	"github.com/meetcapture/backend/internal/recordings"
	"github.com/meetcapture/backend/pkg/queue"
	"github.com/meetcapture/backend/pkg/storage"
)

// Processor drives a recording through post-processing: upcoming ->
// processing (final duration recorded) -> processed (video URL set).
// The media itself is produced by an external pipeline; this worker only
// resolves where the processed file lives and flips the lifecycle state.
type Processor struct {
	recRepo  *recordings.Repository
	partRepo *participants.Repository
	s3       *storage.S3 // optional: cloud-storage backend disabled when nil
	queue    *queue.Queue
	video    config.VideoConfig
	grace    time.Duration
	logger   *zap.Logger
}

// NewProcessor creates a post-processing worker.
func NewProcessor(recRepo *recordings.Repository, partRepo *participants.Repository, s3 *storage.S3, q *queue.Queue, video config.VideoConfig, grace time.Duration, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		recRepo:  recRepo,
		partRepo: partRepo,
		s3:       s3,
		queue:    q,
		video:    video,
		grace:    grace,
		logger:   logger,
	}
}

// Process executes one post-processing job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeRecordingProcess {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.RecordingProcessPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	rec, err := p.recRepo.GetByID(ctx, payload.RecordingID)
	if err != nil {
		return fmt.Errorf("load recording %s: %w", payload.RecordingID, err)
	}
	if rec.Status == models.RecordingStatusProcessed {
		p.logger.Info("recording already processed", zap.String("recording_id", rec.ID.String()))
		return nil
	}

	if rec.Status == models.RecordingStatusUpcoming {
		final := recordings.FinalDuration(time.Duration(payload.ElapsedSeconds) * time.Second)
		if err := p.recRepo.MarkProcessing(ctx, rec.ID, final); err != nil {
			return fmt.Errorf("mark processing: %w", err)
		}
		rec.Status = models.RecordingStatusProcessing
	}

	videoURL, err := p.resolveVideoURL(ctx, rec)
	if err != nil {
		return err
	}

	if err := p.recRepo.MarkProcessed(ctx, rec.ID, videoURL); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	p.logger.Info("recording processed",
		zap.String("recording_id", rec.ID.String()),
		zap.String("video_url", videoURL))
	return nil
}

// resolveVideoURL determines the processed video location per storage
// backend. For cloud-storage the external pipeline must have delivered the
// object already; an absent object fails the job so the queue's retry and
// DLQ policy applies. An attendance manifest is written next to the video.
func (p *Processor) resolveVideoURL(ctx context.Context, rec *models.Recording) (string, error) {
	switch rec.Storage {
	case models.StorageCloud:
		if p.s3 == nil {
			return "", fmt.Errorf("cloud-storage recording %s but S3 not configured", rec.ID)
		}
		bucket := p.s3.RecordingsBucket()
		key := storage.RecordingKey(rec.ID.String())
		ok, err := p.s3.ObjectExists(ctx, bucket, key)
		if err != nil {
			return "", fmt.Errorf("check processed video: %w", err)
		}
		if !ok {
			return "", fmt.Errorf("processed video %s/%s not delivered yet", bucket, key)
		}
		if err := p.uploadManifest(ctx, rec, bucket); err != nil {
			// The video is the deliverable; a failed manifest is logged, not fatal.
			p.logger.Warn("attendance manifest upload failed", zap.Error(err), zap.String("recording_id", rec.ID.String()))
		}
		return p.s3.PublicObjectURL(bucket, key), nil
	case models.StorageLocal:
		return fmt.Sprintf("%s/%s.mp4", p.video.LocalBaseURL, rec.ID), nil
	default: // google-drive
		return fmt.Sprintf("%s/%s.mp4", p.video.DriveBaseURL, rec.ID), nil
	}
}

func (p *Processor) uploadManifest(ctx context.Context, rec *models.Recording, bucket string) error {
	list, err := p.partRepo.ListByRecording(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}
	report, err := attendance.BuildReport(rec, list, p.grace)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = p.s3.Upload(ctx, bucket, storage.ManifestKey(rec.ID.String()), "application/json", bytes.NewReader(raw))
	return err
}

// waitRetry sleeps for the retry backoff or until ctx is cancelled,
// whichever comes first, so shutdown is not held up by a failed job.
func waitRetry(ctx context.Context) {
	t := time.NewTimer(queue.RetryBackoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("post-processing worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("post-processing worker stopping")
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			waitRetry(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			waitRetry(ctx)
			continue
		}
	}
}

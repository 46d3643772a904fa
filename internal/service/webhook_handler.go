package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/logger"
	"github.com/reachradar/reachradar/internal/repository"
)

// ScrapWebhookHandler is the state-machine core of the scrape lifecycle.
// Given a job correlation id and the raw provider payload, it resolves
// the job and its adapter, parses every payload element, drives the
// appropriate sync service, and finalizes the job status.
type ScrapWebhookHandler struct {
	jobs     *repository.ScrapJobRepository
	scrapers ScraperResolver
	profiles *ProfileSyncService
	posts    *PostSyncService
	logger   *logger.Logger
}

// NewScrapWebhookHandler creates a new webhook result handler.
func NewScrapWebhookHandler(
	jobs *repository.ScrapJobRepository,
	scrapers ScraperResolver,
	profiles *ProfileSyncService,
	posts *PostSyncService,
	log *logger.Logger,
) *ScrapWebhookHandler {
	return &ScrapWebhookHandler{
		jobs:     jobs,
		scrapers: scrapers,
		profiles: profiles,
		posts:    posts,
		logger:   log,
	}
}

// HandleWebhook processes one provider callback. Unknown job ids are
// logged and dropped: the delivery is treated as stale, not as an error.
// Any failure while parsing or reconciling marks the job failed with the
// captured message instead of propagating, so one bad payload cannot
// poison the queue consumer.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: correlation id from the webhook URL.
//   - payload: raw provider JSON (object, array, or nested arrays).
// Returns:
//   - error: non-nil only for infrastructure failures (ledger unreachable);
//     payload-level failures are recorded on the job.
func (h *ScrapWebhookHandler) HandleWebhook(ctx context.Context, jobID string, payload []byte) error {
	job, err := h.jobs.GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.logger.WithField(logger.FieldJobID, jobID).Warn("Webhook for unknown job dropped")
			return nil
		}
		return fmt.Errorf("look up scrape job: %w", err)
	}

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldJobID:        jobID,
		logger.FieldInfluencerID: job.InfluencerID,
		logger.FieldPlatform:     string(job.Platform),
	})

	if err := h.process(ctx, job, payload); err != nil {
		logger.CtxError(ctx, "Webhook processing failed: job_type=%s, error=%v", job.JobType, err)
		if markErr := h.jobs.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			return fmt.Errorf("mark job failed: %w", markErr)
		}
		return nil
	}

	if err := h.jobs.MarkCompleted(ctx, jobID); err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	logger.CtxInfo(ctx, "Webhook processed: job_type=%s", job.JobType)
	return nil
}

func (h *ScrapWebhookHandler) process(ctx context.Context, job *domain.ScrapJob, payload []byte) error {
	sc, err := h.scrapers.Get(job.Platform)
	if err != nil {
		return err
	}

	elements, err := flattenPayload(payload)
	if err != nil {
		return err
	}
	if len(elements) == 0 {
		return domain.ErrNoPayload
	}

	for _, element := range elements {
		switch job.JobType {
		case domain.JobTypeProfile:
			data, err := sc.ParseProfile(element)
			if err != nil {
				return fmt.Errorf("parse profile payload: %w", err)
			}
			if err := h.profiles.SyncScrapedProfileData(ctx, job.InfluencerID, data); err != nil {
				return fmt.Errorf("sync profile data: %w", err)
			}
		case domain.JobTypePosts:
			data, err := sc.ParsePost(element)
			if err != nil {
				return fmt.Errorf("parse post payload: %w", err)
			}
			if err := h.posts.SyncScrapedPostData(ctx, job.InfluencerID, data); err != nil {
				return fmt.Errorf("sync post data: %w", err)
			}
		default:
			return fmt.Errorf("unknown job type %q", job.JobType)
		}
	}

	return nil
}

// flattenPayload normalizes the three payload shapes the provider is known
// to send: a bare object, a flat array of objects, and an array containing
// nested arrays of objects. Non-object leaves are skipped.
func flattenPayload(payload []byte) ([]map[string]interface{}, error) {
	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	var elements []map[string]interface{}
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch node := v.(type) {
		case map[string]interface{}:
			elements = append(elements, node)
		case []interface{}:
			for _, child := range node {
				walk(child)
			}
		}
	}
	walk(decoded)

	return elements, nil
}

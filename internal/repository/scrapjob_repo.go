package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/scraper"
	"gorm.io/gorm"
)

// ScrapJobRepository is the job ledger: the durable record of every scrape
// request issued and its lifecycle. It is append-mostly; besides creation,
// only terminal-status finalization and lookup-by-jobID are offered.
type ScrapJobRepository struct {
	db *gorm.DB
}

// NewScrapJobRepository creates a new ScrapJobRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ScrapJobRepository: repository instance bound to db.
func NewScrapJobRepository(db *gorm.DB) *ScrapJobRepository {
	return &ScrapJobRepository{db: db}
}

// CreateJob persists a new scrape job with a fresh correlation id and
// returns that id for the caller to embed in the provider callback URL.
// The job is recorded as processing: the trigger call is issued in the
// same operation, so there is no observable pending window.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - params: job attributes including ownership context.
// Returns:
//   - string: generated job correlation id.
//   - error: non-nil if the insert fails.
func (r *ScrapJobRepository) CreateJob(ctx context.Context, params scraper.CreateJobParams) (string, error) {
	jobID := uuid.New().String()
	job := &domain.ScrapJob{
		ID:             uuid.New().String(),
		JobID:          jobID,
		OrganizationID: params.Context.OrganizationID,
		UserID:         params.Context.UserID,
		InfluencerID:   params.Context.InfluencerID,
		Platform:       params.Platform,
		JobType:        params.JobType,
		Status:         domain.JobStatusProcessing,
		TargetURL:      params.TargetURL,
		Metadata:       params.Metadata,
		StartedAt:      time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return "", err
	}
	return jobID, nil
}

// GetByJobID retrieves a scrape job by its correlation id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: correlation id from the webhook URL.
// Returns:
//   - *domain.ScrapJob: job record if found.
//   - error: domain.ErrNotFound if absent.
func (r *ScrapJobRepository) GetByJobID(ctx context.Context, jobID string) (*domain.ScrapJob, error) {
	var job domain.ScrapJob
	if err := r.db.WithContext(ctx).First(&job, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// MarkCompleted finalizes a job as completed and stamps completed_at.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: correlation id of the job to finalize.
// Returns:
//   - error: non-nil if the update fails.
func (r *ScrapJobRepository) MarkCompleted(ctx context.Context, jobID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.ScrapJob{}).
		Where("job_id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       domain.JobStatusCompleted,
			"completed_at": now,
		}).Error
}

// MarkFailed finalizes a job as failed with the captured error message.
// This is the system's only durable failure record; there is no retry
// transition at this layer.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: correlation id of the job to finalize.
//   - message: captured error message.
// Returns:
//   - error: non-nil if the update fails.
func (r *ScrapJobRepository) MarkFailed(ctx context.Context, jobID string, message string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.ScrapJob{}).
		Where("job_id = ?", jobID).
		Updates(map[string]interface{}{
			"status":        domain.JobStatusFailed,
			"error_message": message,
			"completed_at":  now,
		}).Error
}

// ListByInfluencer retrieves recent jobs for an influencer, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - influencerID: owning influencer.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.ScrapJob: matching records.
//   - error: non-nil if the query fails.
func (r *ScrapJobRepository) ListByInfluencer(ctx context.Context, influencerID string, limit int) ([]domain.ScrapJob, error) {
	var jobs []domain.ScrapJob
	if err := r.db.WithContext(ctx).
		Where("influencer_id = ?", influencerID).
		Limit(limit).
		Order("started_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

package scraper

import (
	"context"

	"github.com/reachradar/reachradar/internal/domain"
)

// Scraper defines the per-platform adapter contract: trigger an
// asynchronous scrape with the provider and parse its callback payloads
// into normalized records.
type Scraper interface {
	// Platform returns the platform this scraper handles.
	// Parameters: none.
	// Returns:
	//   - domain.Platform: platform identifier.
	Platform() domain.Platform

	// TriggerProfile starts an asynchronous profile scrape for the handle.
	// It records a scrape job in the ledger and registers the job's webhook
	// callback URL with the provider. It returns once the provider has
	// accepted the request; the result arrives later via webhook.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - handle: platform handle or full profile URL.
	//   - sc: ownership context recorded on the job.
	// Returns:
	//   - error: non-nil if credentials are missing or the trigger call fails.
	TriggerProfile(ctx context.Context, handle string, sc domain.SyncContext) error

	// TriggerPosts starts an asynchronous posts scrape for the handle.
	// Parameters and behavior mirror TriggerProfile with job type posts.
	TriggerPosts(ctx context.Context, handle string, sc domain.SyncContext) error

	// ParseProfile normalizes one raw profile payload element. Missing
	// optional fields are tolerated; it fails only when the payload is empty.
	// Parameters:
	//   - raw: decoded provider payload element.
	// Returns:
	//   - *domain.ProfileData: normalized profile fields.
	//   - error: non-nil only if raw carries no data at all.
	ParseProfile(raw map[string]interface{}) (*domain.ProfileData, error)

	// ParsePost normalizes one raw post payload element, deriving a
	// deterministic fallback post id when the provider omits one.
	// Parameters:
	//   - raw: decoded provider payload element.
	// Returns:
	//   - *domain.PostData: normalized post fields.
	//   - error: non-nil only if raw carries no data at all.
	ParsePost(raw map[string]interface{}) (*domain.PostData, error)
}

// JobLedger is the slice of the scrape-job repository the adapters need:
// creating the durable job record whose id is embedded in the provider
// callback URL.
type JobLedger interface {
	CreateJob(ctx context.Context, params CreateJobParams) (string, error)
}

// CreateJobParams carries everything recorded on a new scrape job.
type CreateJobParams struct {
	Handle    string
	TargetURL string
	JobType   domain.JobType
	Platform  domain.Platform
	Context   domain.SyncContext
	Metadata  domain.JSONMap
}

package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/logger"
)

// Config holds everything the scrapers need to talk to the provider.
type Config struct {
	APIKey         string
	BaseURL        string
	WebhookBaseURL string
	TriggerTimeout time.Duration
	Datasets       map[domain.Platform]DatasetIDs
}

// DatasetIDs holds the provider dataset ids for one platform.
type DatasetIDs struct {
	Profile string
	Posts   string
}

// Client wraps the Bright Data dataset trigger API. Triggering is
// asynchronous: the provider accepts the request, runs the scrape on its
// side, and delivers results to the webhook URL registered per request.
type Client struct {
	http           *resty.Client
	apiKey         string
	baseURL        string
	webhookBaseURL string
}

// NewClient creates a trigger client.
// Parameters:
//   - cfg: provider configuration including API key and base URL.
//
// Returns:
//   - *Client: initialized client; triggers fail with ErrMissingCredentials
//     when no API key is configured.
func NewClient(cfg *Config) *Client {
	timeout := cfg.TriggerTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Trigger calls only hand off work to the provider; anything slower
	// than this is treated as a failure.
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.brightdata.com/datasets/v3"
	}

	if cfg.APIKey == "" {
		logger.Warn("Bright Data API key not configured; scrape triggers will fail")
	}

	return &Client{
		http:           client,
		apiKey:         cfg.APIKey,
		baseURL:        baseURL,
		webhookBaseURL: cfg.WebhookBaseURL,
	}
}

// CallbackURL builds the webhook URL the provider will deliver results to
// for the given job. The job id path segment is the only correlation state
// shared with the provider.
func (c *Client) CallbackURL(jobID string) string {
	return fmt.Sprintf("%s/scrap-webhook/%s", c.webhookBaseURL, jobID)
}

// triggerRequest describes one dataset trigger call.
type triggerRequest struct {
	DatasetID   string
	DiscoverBy  string // empty for direct collection
	TargetURL   string
	CallbackURL string
	StartDate   string
	EndDate     string
}

type triggerResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// Trigger issues the asynchronous dataset trigger call.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: trigger parameters including the job callback URL.
//
// Returns:
//   - string: provider snapshot id (informational only; correlation flows
//     through the callback URL, not the snapshot id).
//   - error: non-nil if credentials are missing or the call fails.
func (c *Client) Trigger(ctx context.Context, req triggerRequest) (string, error) {
	if c.apiKey == "" {
		return "", domain.ErrMissingCredentials
	}

	params := map[string]string{
		"dataset_id":           req.DatasetID,
		"include_errors":       "true",
		"format":               "json",
		"endpoint":             req.CallbackURL,
		"webhook_endpoint":     req.CallbackURL,
		"notify":               "true",
		"uncompressed_webhook": "true",
	}
	if req.DiscoverBy != "" {
		params["type"] = "discover_new"
		params["discover_by"] = req.DiscoverBy
	}

	body := map[string]string{"url": req.TargetURL}
	if req.StartDate != "" {
		body["start_date"] = req.StartDate
	}
	if req.EndDate != "" {
		body["end_date"] = req.EndDate
	}

	var result triggerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetBody([]map[string]string{body}).
		SetResult(&result).
		Post(c.baseURL + "/trigger")
	if err != nil {
		return "", fmt.Errorf("trigger scrape: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("trigger scrape: provider returned %d: %s", resp.StatusCode(), resp.String())
	}

	return result.SnapshotID, nil
}

// baseScraper implements the trigger half of the Scraper contract shared
// by all platforms; platform files supply URL canonicalization, dataset
// ids, and payload parsing.
type baseScraper struct {
	client   *Client
	ledger   JobLedger
	platform domain.Platform
	datasets DatasetIDs
}

// trigger records a scrape job in the ledger and issues the provider
// trigger call with the job's callback URL. The ledger write happens
// first so a callback can never arrive for an unknown job.
func (b *baseScraper) trigger(ctx context.Context, jobType domain.JobType, handle, targetURL, datasetID, discoverBy string, sc domain.SyncContext) error {
	if datasetID == "" {
		return fmt.Errorf("%w: no %s dataset configured for %s", domain.ErrMissingCredentials, jobType, b.platform)
	}

	jobID, err := b.ledger.CreateJob(ctx, CreateJobParams{
		Handle:    handle,
		TargetURL: targetURL,
		JobType:   jobType,
		Platform:  b.platform,
		Context:   sc,
		Metadata:  domain.JSONMap{"handle": handle},
	})
	if err != nil {
		return fmt.Errorf("create scrape job: %w", err)
	}

	snapshotID, err := b.client.Trigger(ctx, triggerRequest{
		DatasetID:   datasetID,
		DiscoverBy:  discoverBy,
		TargetURL:   targetURL,
		CallbackURL: b.client.CallbackURL(jobID),
	})
	if err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Scrape triggered: platform=%s, job_type=%s, job_id=%s, snapshot_id=%s",
		b.platform, jobType, jobID, snapshotID)
	return nil
}

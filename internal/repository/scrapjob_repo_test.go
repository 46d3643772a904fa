package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/scraper"
)

func newTestJobParams() scraper.CreateJobParams {
	return scraper.CreateJobParams{
		Handle:    "jdoe",
		TargetURL: "https://www.linkedin.com/in/jdoe/",
		JobType:   domain.JobTypeProfile,
		Platform:  domain.PlatformLinkedIn,
		Context: domain.SyncContext{
			OrganizationID: "org-1",
			UserID:         "user-1",
			InfluencerID:   "inf-1",
		},
		Metadata: domain.JSONMap{"dataset_id": "gd_li_profile"},
	}
}

func TestScrapJobRepository_CreateJob(t *testing.T) {
	repo := NewScrapJobRepository(newTestDB(t))
	ctx := context.Background()

	jobID, err := repo.CreateJob(ctx, newTestJobParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobID == "" {
		t.Fatal("expected a job id")
	}

	job, err := repo.GetByJobID(ctx, jobID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != domain.JobStatusProcessing {
		t.Errorf("expected processing status, got %q", job.Status)
	}
	if job.InfluencerID != "inf-1" || job.OrganizationID != "org-1" {
		t.Errorf("unexpected ownership: influencer=%q org=%q", job.InfluencerID, job.OrganizationID)
	}
	if job.StartedAt.IsZero() {
		t.Error("expected started at to be stamped")
	}
	if job.CompletedAt != nil {
		t.Error("expected completed at to be unset")
	}

	other, err := repo.CreateJob(ctx, newTestJobParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other == jobID {
		t.Error("expected unique job ids")
	}
}

func TestScrapJobRepository_GetByJobIDNotFound(t *testing.T) {
	repo := NewScrapJobRepository(newTestDB(t))

	_, err := repo.GetByJobID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestScrapJobRepository_MarkCompleted(t *testing.T) {
	repo := NewScrapJobRepository(newTestDB(t))
	ctx := context.Background()

	jobID, err := repo.CreateJob(ctx, newTestJobParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.MarkCompleted(ctx, jobID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, err := repo.GetByJobID(ctx, jobID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != domain.JobStatusCompleted {
		t.Errorf("expected completed status, got %q", job.Status)
	}
	if job.CompletedAt == nil {
		t.Error("expected completed at to be stamped")
	}
}

func TestScrapJobRepository_MarkFailed(t *testing.T) {
	repo := NewScrapJobRepository(newTestDB(t))
	ctx := context.Background()

	jobID, err := repo.CreateJob(ctx, newTestJobParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.MarkFailed(ctx, jobID, "provider returned 502"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, err := repo.GetByJobID(ctx, jobID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != domain.JobStatusFailed {
		t.Errorf("expected failed status, got %q", job.Status)
	}
	if job.ErrorMessage != "provider returned 502" {
		t.Errorf("unexpected error message: %q", job.ErrorMessage)
	}
	if job.CompletedAt == nil {
		t.Error("expected completed at to be stamped")
	}
}

func TestScrapJobRepository_ListByInfluencer(t *testing.T) {
	repo := NewScrapJobRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.CreateJob(ctx, newTestJobParams()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	jobs, err := repo.ListByInfluencer(ctx, "inf-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("expected limit to apply, got %d jobs", len(jobs))
	}
}

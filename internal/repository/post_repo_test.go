package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/reachradar/reachradar/internal/domain"
)

func TestPostRepository_UpsertIsIdempotent(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()

	first := &domain.Post{
		InfluencerID:   "inf-1",
		PlatformPostID: "post-1",
		Content:        "original",
		LikesCount:     10,
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A redelivery carries fresher engagement counts for the same post.
	second := &domain.Post{
		InfluencerID:   "inf-1",
		PlatformPostID: "post-1",
		Content:        "edited",
		LikesCount:     42,
		CommentsCount:  3,
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := repo.CountByInfluencer(ctx, "inf-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single row after redelivery, got %d", count)
	}

	got, err := repo.GetByPlatformPostID(ctx, "post-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "edited" {
		t.Errorf("unexpected content: %q", got.Content)
	}
	if got.LikesCount != 42 || got.CommentsCount != 3 {
		t.Errorf("unexpected counts: likes=%d comments=%d", got.LikesCount, got.CommentsCount)
	}
	if got.ID != first.ID {
		t.Errorf("expected the original row id %q to survive, got %q", first.ID, got.ID)
	}
}

func TestPostRepository_GetByPlatformPostIDNotFound(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))

	_, err := repo.GetByPlatformPostID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostRepository_ListByInfluencer(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()

	posts := []*domain.Post{
		{InfluencerID: "inf-1", PlatformPostID: "post-1", PostedAt: 1000},
		{InfluencerID: "inf-1", PlatformPostID: "post-2", PostedAt: 3000},
		{InfluencerID: "inf-1", PlatformPostID: "post-3", PostedAt: 2000},
		{InfluencerID: "inf-2", PlatformPostID: "post-4", PostedAt: 4000},
	}
	for _, p := range posts {
		if err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := repo.ListByInfluencer(ctx, "inf-1", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(got))
	}
	// Newest first.
	if got[0].PlatformPostID != "post-2" || got[2].PlatformPostID != "post-1" {
		t.Errorf("unexpected order: %q, %q, %q", got[0].PlatformPostID, got[1].PlatformPostID, got[2].PlatformPostID)
	}
}

func TestPostRepository_MediaURLsRoundTrip(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()

	post := &domain.Post{
		InfluencerID:   "inf-1",
		PlatformPostID: "post-1",
		MediaURLs:      domain.StringArray{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
	}
	if err := repo.Upsert(ctx, post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByPlatformPostID(ctx, "post-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.MediaURLs) != 2 || got.MediaURLs[0] != "https://img.example.com/a.jpg" {
		t.Errorf("unexpected media urls: %v", got.MediaURLs)
	}
}

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/reachradar/reachradar/internal/domain"
)

func newTestInfluencer(handle string) *domain.Influencer {
	return &domain.Influencer{
		OrganizationID: "org-1",
		UserID:         "user-1",
		Platform:       domain.PlatformLinkedIn,
		Handle:         handle,
	}
}

func TestInfluencerRepository_Create(t *testing.T) {
	repo := NewInfluencerRepository(newTestDB(t))
	ctx := context.Background()

	influencer := newTestInfluencer("jdoe")
	if err := repo.Create(ctx, influencer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if influencer.ID == "" {
		t.Error("expected an id to be generated")
	}

	got, err := repo.GetByID(ctx, influencer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Handle != "jdoe" {
		t.Errorf("unexpected handle: %q", got.Handle)
	}
}

func TestInfluencerRepository_CreateDuplicate(t *testing.T) {
	repo := NewInfluencerRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, newTestInfluencer("jdoe")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := repo.Create(ctx, newTestInfluencer("jdoe"))
	if !errors.Is(err, domain.ErrDuplicateInfluencer) {
		t.Errorf("expected ErrDuplicateInfluencer, got %v", err)
	}

	// Same handle on another platform is a different account.
	other := newTestInfluencer("jdoe")
	other.Platform = domain.PlatformInstagram
	if err := repo.Create(ctx, other); err != nil {
		t.Errorf("unexpected error for different platform: %v", err)
	}
}

func TestInfluencerRepository_GetByIDNotFound(t *testing.T) {
	repo := NewInfluencerRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInfluencerRepository_TryBeginProfileSync(t *testing.T) {
	repo := NewInfluencerRepository(newTestDB(t))
	ctx := context.Background()

	influencer := newTestInfluencer("jdoe")
	if err := repo.Create(ctx, influencer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.TryBeginProfileSync(ctx, influencer.ID); err != nil {
		t.Fatalf("expected first claim to succeed, got %v", err)
	}

	// Second claim while the first is in flight must fail.
	if err := repo.TryBeginProfileSync(ctx, influencer.ID); !errors.Is(err, domain.ErrAlreadySyncing) {
		t.Errorf("expected ErrAlreadySyncing, got %v", err)
	}

	// The post-sync slot is independent.
	if err := repo.TryBeginPostSync(ctx, influencer.ID); err != nil {
		t.Errorf("expected post-sync claim to succeed, got %v", err)
	}

	if err := repo.ClearProfileSyncing(ctx, influencer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.TryBeginProfileSync(ctx, influencer.ID); err != nil {
		t.Errorf("expected claim after clear to succeed, got %v", err)
	}

	got, err := repo.GetByID(ctx, influencer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LastSyncAttempt == nil {
		t.Error("expected last sync attempt to be stamped")
	}
}

func TestInfluencerRepository_TryBeginSyncNotFound(t *testing.T) {
	repo := NewInfluencerRepository(newTestDB(t))

	err := repo.TryBeginProfileSync(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInfluencerRepository_UpdateProfileFields(t *testing.T) {
	repo := NewInfluencerRepository(newTestDB(t))
	ctx := context.Background()

	influencer := newTestInfluencer("jdoe")
	influencer.Name = "Old Name"
	influencer.Bio = "Old bio"
	if err := repo.Create(ctx, influencer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Partial update: only name and followers change, bio survives.
	err := repo.UpdateProfileFields(ctx, influencer.ID, map[string]interface{}{
		"name":            "New Name",
		"followers_count": int64(1200),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, influencer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "New Name" {
		t.Errorf("unexpected name: %q", got.Name)
	}
	if got.FollowersCount != 1200 {
		t.Errorf("unexpected followers: %d", got.FollowersCount)
	}
	if got.Bio != "Old bio" {
		t.Errorf("expected bio untouched, got %q", got.Bio)
	}
	if got.LastProfileSync == nil {
		t.Error("expected last profile sync to be stamped")
	}
}

func TestInfluencerRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	influencers := NewInfluencerRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	influencer := newTestInfluencer("jdoe")
	if err := influencers.Create(ctx, influencer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := posts.Upsert(ctx, &domain.Post{
		InfluencerID:   influencer.ID,
		PlatformPostID: "post-1",
		Content:        "hello",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := influencers.Delete(ctx, influencer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := influencers.GetByID(ctx, influencer.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected influencer gone, got %v", err)
	}
	count, err := posts.CountByInfluencer(ctx, influencer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected posts cascade deleted, got %d", count)
	}

	if err := influencers.Delete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInfluencerRepository_ListByOrganization(t *testing.T) {
	repo := NewInfluencerRepository(newTestDB(t))
	ctx := context.Background()

	for _, handle := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, newTestInfluencer(handle)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	other := newTestInfluencer("d")
	other.OrganizationID = "org-2"
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.ListByOrganization(ctx, "org-1", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 influencers, got %d", len(got))
	}

	page, err := repo.ListByOrganization(ctx, "org-1", 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("expected 1 influencer on last page, got %d", len(page))
	}
}

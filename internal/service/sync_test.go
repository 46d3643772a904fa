package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/logger"
	"github.com/reachradar/reachradar/internal/repository"
	"github.com/reachradar/reachradar/internal/scraper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         glogger.Default.LogMode(glogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Influencer{}, &domain.Post{}, &domain.ScrapJob{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type triggerCall struct {
	handle string
	sc     domain.SyncContext
}

// stubScraper records trigger calls and parses payloads like a real
// adapter, minus the provider round trip.
type stubScraper struct {
	platform     domain.Platform
	profileCalls []triggerCall
	postCalls    []triggerCall
	triggerErr   error
	parseErr     error
}

func (s *stubScraper) Platform() domain.Platform { return s.platform }

func (s *stubScraper) TriggerProfile(ctx context.Context, handle string, sc domain.SyncContext) error {
	s.profileCalls = append(s.profileCalls, triggerCall{handle: handle, sc: sc})
	return s.triggerErr
}

func (s *stubScraper) TriggerPosts(ctx context.Context, handle string, sc domain.SyncContext) error {
	s.postCalls = append(s.postCalls, triggerCall{handle: handle, sc: sc})
	return s.triggerErr
}

func (s *stubScraper) ParseProfile(raw map[string]interface{}) (*domain.ProfileData, error) {
	if s.parseErr != nil {
		return nil, s.parseErr
	}
	data := &domain.ProfileData{}
	if name, ok := raw["name"].(string); ok {
		data.Name = &name
	}
	if followers, ok := raw["followers"].(float64); ok {
		n := int64(followers)
		data.FollowersCount = &n
	}
	return data, nil
}

func (s *stubScraper) ParsePost(raw map[string]interface{}) (*domain.PostData, error) {
	if s.parseErr != nil {
		return nil, s.parseErr
	}
	data := &domain.PostData{}
	data.PlatformPostID, _ = raw["post_id"].(string)
	data.Content, _ = raw["text"].(string)
	if likes, ok := raw["likes"].(float64); ok {
		data.LikesCount = int64(likes)
	}
	return data, nil
}

type stubResolver struct {
	scraper scraper.Scraper
	err     error
}

func (r *stubResolver) Get(platform domain.Platform) (scraper.Scraper, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.scraper, nil
}

func seedInfluencer(t *testing.T, repo *repository.InfluencerRepository) *domain.Influencer {
	t.Helper()

	influencer := &domain.Influencer{
		OrganizationID: "org-1",
		UserID:         "user-1",
		Platform:       domain.PlatformLinkedIn,
		Handle:         "jdoe",
	}
	if err := repo.Create(context.Background(), influencer); err != nil {
		t.Fatalf("failed to seed influencer: %v", err)
	}
	return influencer
}

func TestProfileSyncService_InitProfileSync(t *testing.T) {
	db := newTestDB(t)
	influencers := repository.NewInfluencerRepository(db)
	influencer := seedInfluencer(t, influencers)

	stub := &stubScraper{platform: domain.PlatformLinkedIn}
	svc := NewProfileSyncService(influencers, &stubResolver{scraper: stub}, logger.New(nil))

	if err := svc.InitProfileSync(context.Background(), influencer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.profileCalls) != 1 {
		t.Fatalf("expected 1 trigger call, got %d", len(stub.profileCalls))
	}
	call := stub.profileCalls[0]
	if call.handle != "jdoe" {
		t.Errorf("unexpected handle: %q", call.handle)
	}
	if call.sc.OrganizationID != "org-1" || call.sc.InfluencerID != influencer.ID {
		t.Errorf("unexpected sync context: %+v", call.sc)
	}

	// The sync flag must not stick after a successful trigger.
	got, err := influencers.GetByID(context.Background(), influencer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsProfileSyncing {
		t.Error("expected sync flag to be cleared")
	}
}

func TestProfileSyncService_InitProfileSyncNotFound(t *testing.T) {
	influencers := repository.NewInfluencerRepository(newTestDB(t))
	svc := NewProfileSyncService(influencers, &stubResolver{scraper: &stubScraper{}}, logger.New(nil))

	err := svc.InitProfileSync(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileSyncService_InitProfileSyncConflict(t *testing.T) {
	db := newTestDB(t)
	influencers := repository.NewInfluencerRepository(db)
	influencer := seedInfluencer(t, influencers)

	// Another caller holds the sync slot.
	if err := influencers.TryBeginProfileSync(context.Background(), influencer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stub := &stubScraper{platform: domain.PlatformLinkedIn}
	svc := NewProfileSyncService(influencers, &stubResolver{scraper: stub}, logger.New(nil))

	err := svc.InitProfileSync(context.Background(), influencer.ID)
	if !errors.Is(err, domain.ErrAlreadySyncing) {
		t.Errorf("expected ErrAlreadySyncing, got %v", err)
	}
	if len(stub.profileCalls) != 0 {
		t.Errorf("expected no trigger while a sync is in flight, got %d", len(stub.profileCalls))
	}
}

func TestProfileSyncService_InitProfileSyncClearsFlagOnTriggerFailure(t *testing.T) {
	db := newTestDB(t)
	influencers := repository.NewInfluencerRepository(db)
	influencer := seedInfluencer(t, influencers)

	stub := &stubScraper{platform: domain.PlatformLinkedIn, triggerErr: fmt.Errorf("provider unavailable")}
	svc := NewProfileSyncService(influencers, &stubResolver{scraper: stub}, logger.New(nil))

	if err := svc.InitProfileSync(context.Background(), influencer.ID); err == nil {
		t.Fatal("expected trigger error to propagate")
	}

	// The flag must be released so the next attempt can proceed.
	if err := influencers.TryBeginProfileSync(context.Background(), influencer.ID); err != nil {
		t.Errorf("expected sync slot to be free after failure, got %v", err)
	}
}

func TestProfileSyncService_InitProfileSyncUnsupportedPlatform(t *testing.T) {
	db := newTestDB(t)
	influencers := repository.NewInfluencerRepository(db)
	influencer := seedInfluencer(t, influencers)

	resolver := &stubResolver{err: fmt.Errorf("%w: tiktok", domain.ErrUnsupportedPlatform)}
	svc := NewProfileSyncService(influencers, resolver, logger.New(nil))

	err := svc.InitProfileSync(context.Background(), influencer.ID)
	if !errors.Is(err, domain.ErrUnsupportedPlatform) {
		t.Errorf("expected ErrUnsupportedPlatform, got %v", err)
	}

	got, err := influencers.GetByID(context.Background(), influencer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsProfileSyncing {
		t.Error("expected sync flag to be cleared")
	}
}

func TestProfileSyncService_SyncScrapedProfileData(t *testing.T) {
	db := newTestDB(t)
	influencers := repository.NewInfluencerRepository(db)
	influencer := seedInfluencer(t, influencers)
	influencer.Bio = "keep me"
	if err := db.Save(influencer).Error; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := NewProfileSyncService(influencers, &stubResolver{scraper: &stubScraper{}}, logger.New(nil))

	name := "Jane Doe"
	followers := int64(1200)
	verified := true
	err := svc.SyncScrapedProfileData(context.Background(), influencer.ID, &domain.ProfileData{
		Name:           &name,
		FollowersCount: &followers,
		IsVerified:     &verified,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := influencers.GetByID(context.Background(), influencer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Jane Doe" || got.FollowersCount != 1200 || !got.IsVerified {
		t.Errorf("unexpected profile state: %+v", got)
	}
	if got.Bio != "keep me" {
		t.Errorf("expected absent fields untouched, bio=%q", got.Bio)
	}
	if got.LastProfileSync == nil {
		t.Error("expected last profile sync to be stamped")
	}
}

func TestPostSyncService_InitPostSync(t *testing.T) {
	db := newTestDB(t)
	influencers := repository.NewInfluencerRepository(db)
	posts := repository.NewPostRepository(db)
	influencer := seedInfluencer(t, influencers)

	stub := &stubScraper{platform: domain.PlatformLinkedIn}
	svc := NewPostSyncService(influencers, posts, &stubResolver{scraper: stub}, logger.New(nil))

	if err := svc.InitPostSync(context.Background(), influencer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stub.postCalls) != 1 {
		t.Fatalf("expected 1 trigger call, got %d", len(stub.postCalls))
	}

	got, err := influencers.GetByID(context.Background(), influencer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsPostSyncing {
		t.Error("expected sync flag to be cleared")
	}
}

func TestPostSyncService_SyncScrapedPostData(t *testing.T) {
	db := newTestDB(t)
	influencers := repository.NewInfluencerRepository(db)
	posts := repository.NewPostRepository(db)
	influencer := seedInfluencer(t, influencers)

	svc := NewPostSyncService(influencers, posts, &stubResolver{scraper: &stubScraper{}}, logger.New(nil))

	data := &domain.PostData{
		PlatformPostID: "post-1",
		Content:        "hello",
		LikesCount:     5,
	}
	if err := svc.SyncScrapedPostData(context.Background(), influencer.ID, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Redelivery with updated counts lands on the same row.
	data.LikesCount = 9
	if err := svc.SyncScrapedPostData(context.Background(), influencer.ID, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := posts.CountByInfluencer(context.Background(), influencer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single row, got %d", count)
	}
	got, err := posts.GetByPlatformPostID(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LikesCount != 9 {
		t.Errorf("unexpected likes: %d", got.LikesCount)
	}
}

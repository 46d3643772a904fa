package service

import (
	"context"

	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/logger"
	"github.com/reachradar/reachradar/internal/repository"
)

// PostSyncService owns the posts side of the scrape lifecycle: claiming
// the per-influencer post-sync slot, triggering the provider, and
// upserting parsed posts by their platform-native id.
type PostSyncService struct {
	influencers *repository.InfluencerRepository
	posts       *repository.PostRepository
	scrapers    ScraperResolver
	logger      *logger.Logger
}

// NewPostSyncService creates a new post sync service.
func NewPostSyncService(influencers *repository.InfluencerRepository, posts *repository.PostRepository, scrapers ScraperResolver, log *logger.Logger) *PostSyncService {
	return &PostSyncService{
		influencers: influencers,
		posts:       posts,
		scrapers:    scrapers,
		logger:      log,
	}
}

// InitPostSync triggers an asynchronous posts scrape for the influencer,
// guarded by the post-sync flag. Mirrors ProfileSyncService.InitProfileSync.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - influencerID: influencer to sync.
// Returns:
//   - error: domain.ErrNotFound, domain.ErrAlreadySyncing, or a trigger
//     failure from the scraper.
func (s *PostSyncService) InitPostSync(ctx context.Context, influencerID string) error {
	influencer, err := s.influencers.GetByID(ctx, influencerID)
	if err != nil {
		return err
	}

	if err := s.influencers.TryBeginPostSync(ctx, influencerID); err != nil {
		return err
	}
	defer func() {
		if err := s.influencers.ClearPostSyncing(context.WithoutCancel(ctx), influencerID); err != nil {
			s.logger.WithError(err).WithField(logger.FieldInfluencerID, influencerID).
				Error("Failed to clear post sync flag")
		}
	}()

	sc, err := s.scrapers.Get(influencer.Platform)
	if err != nil {
		return err
	}

	return sc.TriggerPosts(ctx, influencer.Handle, domain.SyncContext{
		OrganizationID: influencer.OrganizationID,
		UserID:         influencer.UserID,
		InfluencerID:   influencer.ID,
	})
}

// SyncScrapedPostData upserts one parsed post for the influencer, keyed
// by platform-native post id: first sighting inserts, later sightings
// update engagement counters and content in place. This is what makes
// duplicate webhook deliveries safe.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - influencerID: owning influencer.
//   - data: normalized post fields.
// Returns:
//   - error: non-nil if the upsert fails.
func (s *PostSyncService) SyncScrapedPostData(ctx context.Context, influencerID string, data *domain.PostData) error {
	post := &domain.Post{
		InfluencerID:   influencerID,
		PlatformPostID: data.PlatformPostID,
		Content:        data.Content,
		MediaURLs:      data.MediaURLs,
		PostURL:        data.PostURL,
		LikesCount:     data.LikesCount,
		CommentsCount:  data.CommentsCount,
		SharesCount:    data.SharesCount,
		PostedAt:       data.PostedAt,
	}

	if err := s.posts.Upsert(ctx, post); err != nil {
		return err
	}

	logger.CtxDebug(ctx, "Post synced: influencer_id=%s, platform_post_id=%s", influencerID, data.PlatformPostID)
	return nil
}

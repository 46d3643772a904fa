package service

import (
	"context"

	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/logger"
	"github.com/reachradar/reachradar/internal/repository"
	"github.com/reachradar/reachradar/internal/scraper"
)

// ScraperResolver resolves a platform to its scraper. Satisfied by
// scraper.Registry; narrowed to an interface so services can be tested
// with stub scrapers.
type ScraperResolver interface {
	Get(platform domain.Platform) (scraper.Scraper, error)
}

// ProfileSyncService owns the profile side of the scrape lifecycle:
// claiming the per-influencer sync slot, triggering the provider, and
// reconciling parsed profile data back into the influencer record.
type ProfileSyncService struct {
	influencers *repository.InfluencerRepository
	scrapers    ScraperResolver
	logger      *logger.Logger
}

// NewProfileSyncService creates a new profile sync service.
func NewProfileSyncService(influencers *repository.InfluencerRepository, scrapers ScraperResolver, log *logger.Logger) *ProfileSyncService {
	return &ProfileSyncService{
		influencers: influencers,
		scrapers:    scrapers,
		logger:      log,
	}
}

// InitProfileSync triggers an asynchronous profile scrape for the
// influencer. The sync flag is claimed atomically before triggering and
// always released afterwards: it guards against double-triggering, not
// against concurrent result processing, which is idempotent.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - influencerID: influencer to sync.
// Returns:
//   - error: domain.ErrNotFound, domain.ErrAlreadySyncing, or a trigger
//     failure from the scraper.
func (s *ProfileSyncService) InitProfileSync(ctx context.Context, influencerID string) error {
	influencer, err := s.influencers.GetByID(ctx, influencerID)
	if err != nil {
		return err
	}

	if err := s.influencers.TryBeginProfileSync(ctx, influencerID); err != nil {
		return err
	}
	defer func() {
		// The flag must clear even when the trigger fails or the caller
		// has already gone away.
		if err := s.influencers.ClearProfileSyncing(context.WithoutCancel(ctx), influencerID); err != nil {
			s.logger.WithError(err).WithField(logger.FieldInfluencerID, influencerID).
				Error("Failed to clear profile sync flag")
		}
	}()

	sc, err := s.scrapers.Get(influencer.Platform)
	if err != nil {
		return err
	}

	return sc.TriggerProfile(ctx, influencer.Handle, domain.SyncContext{
		OrganizationID: influencer.OrganizationID,
		UserID:         influencer.UserID,
		InfluencerID:   influencer.ID,
	})
}

// SyncScrapedProfileData merges parsed profile data into the influencer
// record. Only fields present in the payload are overwritten, and
// last_profile_sync is stamped. Re-applying the same payload produces the
// same state.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - influencerID: influencer to update.
//   - data: normalized profile fields; nil pointers are skipped.
// Returns:
//   - error: non-nil if the update fails.
func (s *ProfileSyncService) SyncScrapedProfileData(ctx context.Context, influencerID string, data *domain.ProfileData) error {
	fields := map[string]interface{}{}
	if data.Name != nil {
		fields["name"] = *data.Name
	}
	if data.AvatarURL != nil {
		fields["avatar_url"] = *data.AvatarURL
	}
	if data.Bio != nil {
		fields["bio"] = *data.Bio
	}
	if data.FollowersCount != nil {
		fields["followers_count"] = *data.FollowersCount
	}
	if data.IsVerified != nil {
		fields["is_verified"] = *data.IsVerified
	}
	if data.PlatformUserID != nil {
		fields["platform_user_id"] = *data.PlatformUserID
	}

	if err := s.influencers.UpdateProfileFields(ctx, influencerID, fields); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Profile data synced: influencer_id=%s, fields=%d", influencerID, len(fields))
	return nil
}

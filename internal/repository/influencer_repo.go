package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reachradar/reachradar/internal/domain"
	"gorm.io/gorm"
)

// InfluencerRepository handles influencer data operations, including the
// conditional sync-flag updates that serialize scrape triggering per
// influencer.
type InfluencerRepository struct {
	db *gorm.DB
}

// NewInfluencerRepository creates a new InfluencerRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *InfluencerRepository: repository instance bound to db.
func NewInfluencerRepository(db *gorm.DB) *InfluencerRepository {
	return &InfluencerRepository{db: db}
}

// Create inserts a new influencer record. A missing ID is generated.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - influencer: influencer record to persist.
// Returns:
//   - error: domain.ErrDuplicateInfluencer when the (organization,
//     platform, handle) triple already exists; other errors pass through.
func (r *InfluencerRepository) Create(ctx context.Context, influencer *domain.Influencer) error {
	if influencer.ID == "" {
		influencer.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Create(influencer).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateInfluencer
	}
	return err
}

// GetByID retrieves an influencer by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: influencer ID.
// Returns:
//   - *domain.Influencer: influencer record if found.
//   - error: domain.ErrNotFound if absent.
func (r *InfluencerRepository) GetByID(ctx context.Context, id string) (*domain.Influencer, error) {
	var influencer domain.Influencer
	if err := r.db.WithContext(ctx).First(&influencer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &influencer, nil
}

// ListByOrganization retrieves influencers for an organization with pagination.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - organizationID: owning organization.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
// Returns:
//   - []domain.Influencer: matching records.
//   - error: non-nil if the query fails.
func (r *InfluencerRepository) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Influencer, error) {
	var influencers []domain.Influencer
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&influencers).Error; err != nil {
		return nil, err
	}
	return influencers, nil
}

// Delete removes an influencer and all of its posts in one transaction.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: influencer ID.
// Returns:
//   - error: domain.ErrNotFound if the influencer does not exist.
func (r *InfluencerRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("influencer_id = ?", id).Delete(&domain.Post{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Influencer{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// TryBeginProfileSync atomically claims the profile-sync slot for an
// influencer. The flag flip and the in-flight check are a single
// conditional UPDATE, so two overlapping callers cannot both pass.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: influencer ID.
// Returns:
//   - error: domain.ErrAlreadySyncing when the flag was already set,
//     domain.ErrNotFound when no such influencer exists.
func (r *InfluencerRepository) TryBeginProfileSync(ctx context.Context, id string) error {
	return r.tryBeginSync(ctx, id, "is_profile_syncing")
}

// TryBeginPostSync atomically claims the post-sync slot for an influencer.
// Parameters and semantics mirror TryBeginProfileSync.
func (r *InfluencerRepository) TryBeginPostSync(ctx context.Context, id string) error {
	return r.tryBeginSync(ctx, id, "is_post_syncing")
}

func (r *InfluencerRepository) tryBeginSync(ctx context.Context, id, flagColumn string) error {
	result := r.db.WithContext(ctx).Model(&domain.Influencer{}).
		Where("id = ? AND "+flagColumn+" = ?", id, false).
		Updates(map[string]interface{}{
			flagColumn:          true,
			"last_sync_attempt": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the influencer is missing or a sync is in flight;
		// distinguish so callers can answer 404 vs 409.
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Influencer{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrAlreadySyncing
	}
	return nil
}

// ClearProfileSyncing resets the profile-sync flag. Called in a deferred
// block so the flag never sticks after a failed trigger.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: influencer ID.
// Returns:
//   - error: non-nil if the update fails.
func (r *InfluencerRepository) ClearProfileSyncing(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Influencer{}).
		Where("id = ?", id).
		Update("is_profile_syncing", false).Error
}

// ClearPostSyncing resets the post-sync flag.
// Parameters and semantics mirror ClearProfileSyncing.
func (r *InfluencerRepository) ClearPostSyncing(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Influencer{}).
		Where("id = ?", id).
		Update("is_post_syncing", false).Error
}

// UpdateProfileFields applies a partial update to the denormalized profile
// cache and stamps last_profile_sync. Only columns present in fields are
// touched, preserving values the provider did not return.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: influencer ID.
//   - fields: column name to new value map.
// Returns:
//   - error: non-nil if the update fails.
func (r *InfluencerRepository) UpdateProfileFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		fields = map[string]interface{}{}
	}
	fields["last_profile_sync"] = time.Now()
	return r.db.WithContext(ctx).Model(&domain.Influencer{}).
		Where("id = ?", id).
		Updates(fields).Error
}

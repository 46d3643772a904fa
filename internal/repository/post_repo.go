package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reachradar/reachradar/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository handles post data operations.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *PostRepository: repository instance bound to db.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Upsert creates or updates a post keyed by its platform-native post id.
// This is what makes repeated webhook deliveries for the same post safe:
// the first sighting inserts, later sightings update mutable fields in
// place.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - post: post record to create or update.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *PostRepository) Upsert(ctx context.Context, post *domain.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform_post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content", "media_urls", "post_url",
			"likes_count", "comments_count", "shares_count",
			"posted_at", "updated_at",
		}),
	}).Create(post).Error
}

// GetByPlatformPostID retrieves a post by its platform-native id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - platformPostID: provider-native post id.
// Returns:
//   - *domain.Post: post record if found.
//   - error: domain.ErrNotFound if absent.
func (r *PostRepository) GetByPlatformPostID(ctx context.Context, platformPostID string) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.WithContext(ctx).First(&post, "platform_post_id = ?", platformPostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListByInfluencer retrieves posts for an influencer with pagination,
// most recent first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - influencerID: owning influencer.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
// Returns:
//   - []domain.Post: matching records.
//   - error: non-nil if the query fails.
func (r *PostRepository) ListByInfluencer(ctx context.Context, influencerID string, limit, offset int) ([]domain.Post, error) {
	var posts []domain.Post
	if err := r.db.WithContext(ctx).
		Where("influencer_id = ?", influencerID).
		Limit(limit).
		Offset(offset).
		Order("posted_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByInfluencer returns the number of posts stored for an influencer.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - influencerID: owning influencer.
// Returns:
//   - int64: post count.
//   - error: non-nil if the query fails.
func (r *PostRepository) CountByInfluencer(ctx context.Context, influencerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("influencer_id = ?", influencerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

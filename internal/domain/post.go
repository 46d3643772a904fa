package domain

import "time"

// Post represents a single published post scraped from an influencer account.
// PlatformPostID is the provider's native post id and is unique system-wide;
// repeated webhook deliveries for the same post update the existing row in
// place instead of creating duplicates.
type Post struct {
	ID             string `gorm:"type:text;primaryKey" json:"id"`
	InfluencerID   string `gorm:"type:text;not null;index" json:"influencer_id"`
	PlatformPostID string `gorm:"type:text;not null;uniqueIndex:idx_posts_platform_post_id" json:"platform_post_id"`

	Content   string      `gorm:"type:text" json:"content"`
	MediaURLs StringArray `gorm:"type:text" json:"media_urls"`
	PostURL   string      `gorm:"type:text" json:"post_url"`

	LikesCount    int64 `gorm:"default:0" json:"likes_count"`
	CommentsCount int64 `gorm:"default:0" json:"comments_count"`
	SharesCount   int64 `gorm:"default:0" json:"shares_count"`

	// Epoch milliseconds as reported by the provider.
	PostedAt int64 `gorm:"default:0" json:"posted_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Post.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Post) TableName() string {
	return "posts"
}

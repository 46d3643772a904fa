package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Platform identifies the social network an influencer account lives on.
// Values include PlatformLinkedIn and PlatformInstagram.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Influencer represents a tracked social-media account owned by an organization.
// The (organization_id, platform, handle) triple is unique across the system.
// IsProfileSyncing/IsPostSyncing guard against double-triggering a scrape;
// they do not cover result processing, which is idempotent by design of Post.
type Influencer struct {
	ID             string   `gorm:"type:text;primaryKey" json:"id"`
	OrganizationID string   `gorm:"type:text;not null;index:idx_influencers_identity,unique" json:"organization_id"`
	UserID         string   `gorm:"type:text;not null" json:"user_id"`
	Platform       Platform `gorm:"type:text;not null;index:idx_influencers_identity,unique" json:"platform"`
	Handle         string   `gorm:"type:text;not null;index:idx_influencers_identity,unique" json:"handle"`

	// Denormalized profile cache, refreshed by profile syncs.
	Name           string `gorm:"type:text" json:"name"`
	AvatarURL      string `gorm:"type:text" json:"avatar_url"`
	Bio            string `gorm:"type:text" json:"bio"`
	FollowersCount int64  `gorm:"default:0" json:"followers_count"`
	IsVerified     bool   `gorm:"default:false" json:"is_verified"`
	PlatformUserID string `gorm:"type:text" json:"platform_user_id"`

	IsProfileSyncing bool       `gorm:"default:false" json:"is_profile_syncing"`
	IsPostSyncing    bool       `gorm:"default:false" json:"is_post_syncing"`
	LastSyncAttempt  *time.Time `json:"last_sync_attempt,omitempty"`
	LastProfileSync  *time.Time `json:"last_profile_sync,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Influencer.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Influencer) TableName() string {
	return "influencers"
}

package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JobType distinguishes what a scrape job is fetching.
// Values include JobTypeProfile and JobTypePosts.
type JobType string

const (
	JobTypeProfile JobType = "profile"
	JobTypePosts   JobType = "posts"
)

// JobStatus represents the lifecycle status of a scrape job.
// Jobs are created in JobStatusProcessing (the external trigger is issued
// in the same call); JobStatusPending is kept for completeness but is
// never written. Completed and failed are terminal.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JSONMap is a custom type for storing free-form JSON objects in the database.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the map.
//   - error: non-nil if marshaling fails.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSONMap")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// SyncContext identifies who a scrape is performed for. It travels from
// the API layer through the sync services into the job ledger.
type SyncContext struct {
	OrganizationID string
	UserID         string
	InfluencerID   string
}

// ScrapJob is the durable ledger record for one asynchronous scrape request.
// JobID is the correlation id embedded in the provider webhook URL; it is the
// only shared state between the trigger call and the eventual callback.
type ScrapJob struct {
	ID    string `gorm:"type:text;primaryKey" json:"id"`
	JobID string `gorm:"type:text;not null;uniqueIndex:idx_scrap_jobs_job_id" json:"job_id"`

	OrganizationID string   `gorm:"type:text;not null;index" json:"organization_id"`
	UserID         string   `gorm:"type:text;not null" json:"user_id"`
	InfluencerID   string   `gorm:"type:text;not null;index" json:"influencer_id"`
	Platform       Platform `gorm:"type:text;not null" json:"platform"`

	JobType   JobType   `gorm:"type:text;not null" json:"job_type"`
	Status    JobStatus `gorm:"type:text;index:idx_scrap_jobs_status;default:pending" json:"status"`
	TargetURL string    `gorm:"type:text" json:"target_url"`
	Metadata  JSONMap   `gorm:"type:text" json:"metadata"`

	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for ScrapJob.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (ScrapJob) TableName() string {
	return "scrap_jobs"
}

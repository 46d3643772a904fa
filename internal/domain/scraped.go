package domain

// ProfileData is the normalized result of parsing one profile payload
// element from the scraping provider. Pointer fields distinguish "absent
// in the payload" from a genuine zero value so that reconciliation only
// overwrites fields the provider actually returned.
type ProfileData struct {
	Name           *string
	AvatarURL      *string
	Bio            *string
	FollowersCount *int64
	IsVerified     *bool
	PlatformUserID *string
}

// PostData is the normalized result of parsing one post payload element.
// PlatformPostID is always populated; when the provider omits an id the
// parser derives a deterministic fallback so repeated deliveries still
// map to the same row.
type PostData struct {
	PlatformPostID string
	Content        string
	MediaURLs      []string
	PostURL        string
	LikesCount     int64
	CommentsCount  int64
	SharesCount    int64
	PostedAt       int64
}

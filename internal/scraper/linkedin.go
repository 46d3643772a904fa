package scraper

import (
	"context"
	"strings"

	"github.com/reachradar/reachradar/internal/domain"
)

// LinkedInScraper implements the Scraper interface for LinkedIn profiles
// and posts via the Bright Data dataset API.
type LinkedInScraper struct {
	baseScraper
}

// NewLinkedInScraper creates a LinkedIn scraper.
func NewLinkedInScraper(client *Client, ledger JobLedger, datasets DatasetIDs) *LinkedInScraper {
	return &LinkedInScraper{baseScraper{
		client:   client,
		ledger:   ledger,
		platform: domain.PlatformLinkedIn,
		datasets: datasets,
	}}
}

// Platform returns the platform this scraper handles.
func (s *LinkedInScraper) Platform() domain.Platform {
	return domain.PlatformLinkedIn
}

// ProfileURL builds the canonical LinkedIn profile URL for a handle.
// Already-qualified URLs pass through untouched; a leading @ is stripped.
func (s *LinkedInScraper) ProfileURL(handle string) string {
	if strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://") {
		return handle
	}
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	return "https://www.linkedin.com/in/" + handle + "/"
}

// TriggerProfile starts an asynchronous profile scrape for the handle.
func (s *LinkedInScraper) TriggerProfile(ctx context.Context, handle string, sc domain.SyncContext) error {
	return s.trigger(ctx, domain.JobTypeProfile, handle, s.ProfileURL(handle), s.datasets.Profile, "", sc)
}

// TriggerPosts starts an asynchronous posts scrape for the handle. Posts
// are discovered from the profile URL.
func (s *LinkedInScraper) TriggerPosts(ctx context.Context, handle string, sc domain.SyncContext) error {
	return s.trigger(ctx, domain.JobTypePosts, handle, s.ProfileURL(handle), s.datasets.Posts, "profile_url", sc)
}

// ParseProfile normalizes one raw LinkedIn profile payload element.
// Field names vary across dataset versions, so each field probes the
// known variants and missing optional fields stay unset.
func (s *LinkedInScraper) ParseProfile(raw map[string]interface{}) (*domain.ProfileData, error) {
	if len(raw) == 0 {
		return nil, domain.ErrNoPayload
	}

	data := &domain.ProfileData{}
	if name, ok := pickString(raw, "name", "full_name", "title"); ok {
		data.Name = strPtr(name)
	}
	if avatar, ok := pickString(raw, "avatar", "avatar_url", "profile_pic_url", "image"); ok {
		data.AvatarURL = strPtr(avatar)
	}
	if bio, ok := pickString(raw, "about", "bio", "summary", "headline"); ok {
		data.Bio = strPtr(bio)
	}
	if rawHas(raw, "followers", "followers_count", "connections") {
		data.FollowersCount = int64Ptr(pickCount(raw, "followers", "followers_count", "connections"))
	}
	if rawHas(raw, "is_verified", "verified") {
		data.IsVerified = boolPtr(pickBool(raw, "is_verified", "verified"))
	}
	if id, ok := pickString(raw, "linkedin_id", "id", "user_id"); ok {
		data.PlatformUserID = strPtr(id)
	}

	return data, nil
}

// ParsePost normalizes one raw LinkedIn post payload element.
func (s *LinkedInScraper) ParsePost(raw map[string]interface{}) (*domain.PostData, error) {
	if len(raw) == 0 {
		return nil, domain.ErrNoPayload
	}

	data := &domain.PostData{}
	data.PostURL, _ = pickString(raw, "url", "post_url", "link", "share_url")
	data.Content, _ = pickString(raw, "post_text", "text", "content", "title")
	data.LikesCount = pickCount(raw, "likes", "num_likes", "likes_count", "reactions")
	data.CommentsCount = pickCount(raw, "comments", "num_comments", "comments_count")
	data.SharesCount = pickCount(raw, "shares", "num_shares", "shares_count", "reposts")
	data.PostedAt = postedAtMillis(raw)

	for _, key := range []string{"images", "media", "media_urls", "videos"} {
		if v, ok := raw[key]; ok {
			data.MediaURLs = append(data.MediaURLs, toStringSlice(v)...)
		}
	}

	if id, ok := pickString(raw, "post_id", "id", "urn", "activity_id"); ok {
		data.PlatformPostID = id
	} else {
		data.PlatformPostID = fallbackPostID(data.PostURL, data.PostedAt)
	}

	return data, nil
}

// rawHas reports whether any of the keys is present in the payload,
// regardless of value type.
func rawHas(raw map[string]interface{}, keys ...string) bool {
	for _, key := range keys {
		if _, ok := raw[key]; ok {
			return true
		}
	}
	return false
}

// postedAtMillis extracts and normalizes the posted-at timestamp from the
// known field name variants.
func postedAtMillis(raw map[string]interface{}) int64 {
	for _, key := range []string{"date_posted", "posted_at", "created_at", "timestamp", "time"} {
		if v, ok := raw[key]; ok {
			if ms := normalizeEpochMillis(v); ms > 0 {
				return ms
			}
		}
	}
	return 0
}

package scraper

import (
	"context"
	"strings"

	"github.com/reachradar/reachradar/internal/domain"
)

// InstagramScraper implements the Scraper interface for Instagram profiles
// and posts via the Bright Data dataset API.
type InstagramScraper struct {
	baseScraper
}

// NewInstagramScraper creates an Instagram scraper.
func NewInstagramScraper(client *Client, ledger JobLedger, datasets DatasetIDs) *InstagramScraper {
	return &InstagramScraper{baseScraper{
		client:   client,
		ledger:   ledger,
		platform: domain.PlatformInstagram,
		datasets: datasets,
	}}
}

// Platform returns the platform this scraper handles.
func (s *InstagramScraper) Platform() domain.Platform {
	return domain.PlatformInstagram
}

// ProfileURL builds the canonical Instagram profile URL for a handle.
func (s *InstagramScraper) ProfileURL(handle string) string {
	if strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://") {
		return handle
	}
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	return "https://www.instagram.com/" + handle + "/"
}

// TriggerProfile starts an asynchronous profile scrape for the handle.
func (s *InstagramScraper) TriggerProfile(ctx context.Context, handle string, sc domain.SyncContext) error {
	return s.trigger(ctx, domain.JobTypeProfile, handle, s.ProfileURL(handle), s.datasets.Profile, "", sc)
}

// TriggerPosts starts an asynchronous posts scrape for the handle.
func (s *InstagramScraper) TriggerPosts(ctx context.Context, handle string, sc domain.SyncContext) error {
	return s.trigger(ctx, domain.JobTypePosts, handle, s.ProfileURL(handle), s.datasets.Posts, "url", sc)
}

// ParseProfile normalizes one raw Instagram profile payload element.
func (s *InstagramScraper) ParseProfile(raw map[string]interface{}) (*domain.ProfileData, error) {
	if len(raw) == 0 {
		return nil, domain.ErrNoPayload
	}

	data := &domain.ProfileData{}
	if name, ok := pickString(raw, "full_name", "name", "profile_name"); ok {
		data.Name = strPtr(name)
	}
	if avatar, ok := pickString(raw, "profile_image_link", "avatar", "profile_pic_url"); ok {
		data.AvatarURL = strPtr(avatar)
	}
	if bio, ok := pickString(raw, "biography", "bio", "about"); ok {
		data.Bio = strPtr(bio)
	}
	if rawHas(raw, "followers", "followers_count", "edge_followed_by") {
		data.FollowersCount = int64Ptr(pickCount(raw, "followers", "followers_count", "edge_followed_by"))
	}
	if rawHas(raw, "is_verified", "verified") {
		data.IsVerified = boolPtr(pickBool(raw, "is_verified", "verified"))
	}
	if id, ok := pickString(raw, "instagram_id", "id", "pk", "user_id"); ok {
		data.PlatformUserID = strPtr(id)
	}

	return data, nil
}

// ParsePost normalizes one raw Instagram post payload element.
func (s *InstagramScraper) ParsePost(raw map[string]interface{}) (*domain.PostData, error) {
	if len(raw) == 0 {
		return nil, domain.ErrNoPayload
	}

	data := &domain.PostData{}
	data.PostURL, _ = pickString(raw, "url", "post_url", "shortcode_url", "link")
	data.Content, _ = pickString(raw, "description", "caption", "text", "content")
	data.LikesCount = pickCount(raw, "likes", "likes_count", "edge_liked_by")
	data.CommentsCount = pickCount(raw, "num_comments", "comments", "comments_count")
	data.SharesCount = pickCount(raw, "shares", "reshare_count", "shares_count")
	data.PostedAt = postedAtMillis(raw)

	for _, key := range []string{"photos", "videos", "media", "display_url", "media_urls"} {
		if v, ok := raw[key]; ok {
			data.MediaURLs = append(data.MediaURLs, toStringSlice(v)...)
		}
	}

	if id, ok := pickString(raw, "post_id", "id", "shortcode", "pk"); ok {
		data.PlatformPostID = id
	} else {
		data.PlatformPostID = fallbackPostID(data.PostURL, data.PostedAt)
	}

	return data, nil
}

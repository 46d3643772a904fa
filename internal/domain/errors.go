package domain

import "errors"

// Sentinel errors shared across repositories, services, and handlers.
// Checked with errors.Is so callers can map them to transport-level codes.
var (
	// ErrNotFound is returned when an influencer or scrape job does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateInfluencer is returned when an influencer with the same
	// (organization, platform, handle) already exists.
	ErrDuplicateInfluencer = errors.New("influencer already exists")

	// ErrAlreadySyncing is returned when a sync is requested while another
	// sync of the same kind is in flight for the influencer.
	ErrAlreadySyncing = errors.New("sync already in progress")

	// ErrUnsupportedPlatform is returned when no scraper is registered for
	// a platform. This is a hard failure: an unroutable platform indicates
	// a configuration bug, not a condition to skip.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrMissingCredentials is returned when a trigger is attempted without
	// provider credentials configured.
	ErrMissingCredentials = errors.New("scraper credentials not configured")

	// ErrNoPayload is returned by parsers when a payload element is empty.
	ErrNoPayload = errors.New("empty payload")
)

package scraper

import (
	"fmt"
	"sync"

	"github.com/reachradar/reachradar/internal/domain"
)

// Registry resolves a platform identifier to its scraper, constructing
// one instance per platform and caching it. It is built once at process
// start and handed to the sync services and the webhook result handler.
type Registry struct {
	client   *Client
	ledger   JobLedger
	datasets map[domain.Platform]DatasetIDs
	scrapers map[domain.Platform]Scraper
	mu       sync.Mutex
}

// NewRegistry creates a scraper registry.
// Parameters:
//   - cfg: provider configuration (credentials, base URL, dataset ids).
//   - ledger: scrape-job ledger used by all scrapers.
// Returns:
//   - *Registry: registry ready to resolve scrapers.
func NewRegistry(cfg *Config, ledger JobLedger) *Registry {
	return &Registry{
		client:   NewClient(cfg),
		ledger:   ledger,
		datasets: cfg.Datasets,
		scrapers: make(map[domain.Platform]Scraper),
	}
}

// Get returns the scraper for the platform, constructing and caching it
// on first use. Unknown platforms fail hard: an unroutable platform is a
// configuration bug, not a condition to skip.
// Parameters:
//   - platform: platform identifier to resolve.
// Returns:
//   - Scraper: cached scraper instance.
//   - error: ErrUnsupportedPlatform for unknown platforms.
func (r *Registry) Get(platform domain.Platform) (Scraper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.scrapers[platform]; ok {
		return s, nil
	}

	var s Scraper
	switch platform {
	case domain.PlatformLinkedIn:
		s = NewLinkedInScraper(r.client, r.ledger, r.datasets[platform])
	case domain.PlatformInstagram:
		s = NewInstagramScraper(r.client, r.ledger, r.datasets[platform])
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, platform)
	}

	r.scrapers[platform] = s
	return s, nil
}

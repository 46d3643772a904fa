package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/reachradar/reachradar/internal/logger"
)

// Archiver keeps a copy of every raw webhook payload in object storage,
// keyed by job correlation id. Archiving is best-effort: a storage outage
// must never hold up the provider callback or the queue publish.
type Archiver struct {
	store  ObjectStorage
	logger *logger.Logger
}

// NewArchiver creates a payload archiver backed by the given storage.
func NewArchiver(store ObjectStorage, log *logger.Logger) *Archiver {
	return &Archiver{store: store, logger: log}
}

// ArchiveWebhook stores one raw payload under webhooks/<jobID>.json.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: job correlation id.
//   - payload: raw provider JSON.
// Returns:
//   - error: non-nil if the upload fails; callers log and move on.
func (a *Archiver) ArchiveWebhook(ctx context.Context, jobID string, payload []byte) error {
	key := fmt.Sprintf("webhooks/%s.json", jobID)
	if err := a.store.Upload(ctx, key, bytes.NewReader(payload), int64(len(payload)), "application/json"); err != nil {
		return fmt.Errorf("archive webhook payload: %w", err)
	}
	a.logger.WithField(logger.FieldJobID, jobID).Debug("Webhook payload archived")
	return nil
}

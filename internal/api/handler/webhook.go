package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reachradar/reachradar/internal/api/middleware"
	"github.com/reachradar/reachradar/internal/logger"
	"github.com/reachradar/reachradar/internal/queue"
	"github.com/reachradar/reachradar/internal/storage"
)

// WebhookPublisher publishes a relayed webhook envelope onto the queue.
// Satisfied by queue.Publisher.
type WebhookPublisher interface {
	Publish(ctx context.Context, env queue.Envelope) error
}

// WebhookHandler is the relay at the HTTP boundary: it accepts the
// provider's asynchronous callback and forwards the raw payload, tagged
// with the job correlation id, onto the durable queue. The provider gets
// its response as soon as the publish is acknowledged; reconciliation
// happens later in the consumer.
type WebhookHandler struct {
	publisher WebhookPublisher
	archiver  *storage.Archiver // nil when archiving is disabled
}

// NewWebhookHandler creates a new webhook relay handler.
// Parameters:
//   - publisher: queue publisher for relayed envelopes.
//   - archiver: optional raw-payload archiver; may be nil.
// Returns:
//   - *WebhookHandler: initialized handler.
func NewWebhookHandler(publisher WebhookPublisher, archiver *storage.Archiver) *WebhookHandler {
	return &WebhookHandler{publisher: publisher, archiver: archiver}
}

// Receive handles POST /scrap-webhook/:jobId. The body is provider-defined
// JSON and is relayed opaquely; nothing here inspects or validates it
// beyond reading it off the wire.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *WebhookHandler) Receive(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		jobID = c.Query("jobId")
	}
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jobId is required"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body: " + err.Error()})
		return
	}

	log := middleware.GetLogger(c)

	if h.archiver != nil {
		// Best-effort only; the relay never blocks the provider on storage.
		if err := h.archiver.ArchiveWebhook(c.Request.Context(), jobID, body); err != nil {
			log.WithError(err).WithField(logger.FieldJobID, jobID).Warn("Failed to archive webhook payload")
		}
	}

	if err := h.publisher.Publish(c.Request.Context(), queue.NewEnvelope(jobID, body)); err != nil {
		log.WithError(err).WithField(logger.FieldJobID, jobID).Error("Failed to relay webhook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to relay webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

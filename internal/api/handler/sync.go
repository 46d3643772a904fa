package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/service"
)

// SyncHandler handles the manual sync-trigger endpoints.
type SyncHandler struct {
	profileSync *service.ProfileSyncService
	postSync    *service.PostSyncService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(profileSync *service.ProfileSyncService, postSync *service.PostSyncService) *SyncHandler {
	return &SyncHandler{profileSync: profileSync, postSync: postSync}
}

// TriggerProfileSync handles POST /api/v1/influencers/:id/sync/profile.
// Returns 202 once the provider has accepted the scrape; the result
// arrives later through the webhook pipeline.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SyncHandler) TriggerProfileSync(c *gin.Context) {
	err := h.profileSync.InitProfileSync(c.Request.Context(), c.Param("id"))
	h.respond(c, err)
}

// TriggerPostSync handles POST /api/v1/influencers/:id/sync/posts.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SyncHandler) TriggerPostSync(c *gin.Context) {
	err := h.postSync.InitPostSync(c.Request.Context(), c.Param("id"))
	h.respond(c, err)
}

func (h *SyncHandler) respond(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"status": "started"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Influencer not found"})
	case errors.Is(err, domain.ErrAlreadySyncing):
		c.JSON(http.StatusConflict, gin.H{"error": "Sync already in progress"})
	case errors.Is(err, domain.ErrUnsupportedPlatform):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sync: " + err.Error()})
	}
}

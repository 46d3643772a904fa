package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/reachradar/reachradar/internal/domain"
	"github.com/reachradar/reachradar/internal/repository"
	"github.com/reachradar/reachradar/internal/service"
)

// InfluencerHandler handles influencer CRUD endpoints.
type InfluencerHandler struct {
	influencers *repository.InfluencerRepository
	posts       *repository.PostRepository
	profileSync *service.ProfileSyncService
	postSync    *service.PostSyncService
	runner      *service.TaskRunner
}

// NewInfluencerHandler creates a new influencer handler.
// Parameters:
//   - influencers: influencer repository.
//   - posts: post repository.
//   - profileSync: profile sync service for initial background syncs.
//   - postSync: post sync service for initial background syncs.
//   - runner: background task runner.
// Returns:
//   - *InfluencerHandler: initialized handler.
func NewInfluencerHandler(
	influencers *repository.InfluencerRepository,
	posts *repository.PostRepository,
	profileSync *service.ProfileSyncService,
	postSync *service.PostSyncService,
	runner *service.TaskRunner,
) *InfluencerHandler {
	return &InfluencerHandler{
		influencers: influencers,
		posts:       posts,
		profileSync: profileSync,
		postSync:    postSync,
		runner:      runner,
	}
}

type createInfluencerRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
	UserID         string `json:"user_id" binding:"required"`
	Platform       string `json:"platform" binding:"required"`
	Handle         string `json:"handle" binding:"required"`
	Name           string `json:"name"`
}

// CreateInfluencer handles POST /api/v1/influencers. The record is created
// synchronously; the initial profile and post scrapes are kicked off in
// the background and their outcome is only observable via the sync flags
// and the scrape-job ledger.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *InfluencerHandler) CreateInfluencer(c *gin.Context) {
	var req createInfluencerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	influencer := &domain.Influencer{
		OrganizationID: req.OrganizationID,
		UserID:         req.UserID,
		Platform:       domain.Platform(req.Platform),
		Handle:         req.Handle,
		Name:           req.Name,
	}

	if err := h.influencers.Create(c.Request.Context(), influencer); err != nil {
		if errors.Is(err, domain.ErrDuplicateInfluencer) {
			c.JSON(http.StatusConflict, gin.H{"error": "Influencer already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create influencer: " + err.Error()})
		return
	}

	id := influencer.ID
	h.runner.Submit("initial-profile-sync", func(ctx context.Context) error {
		return h.profileSync.InitProfileSync(ctx, id)
	})
	h.runner.Submit("initial-post-sync", func(ctx context.Context) error {
		return h.postSync.InitPostSync(ctx, id)
	})

	c.JSON(http.StatusCreated, influencer)
}

// GetInfluencer handles GET /api/v1/influencers/:id. The response includes
// the sync flags and timestamps, which is how callers observe sync status.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *InfluencerHandler) GetInfluencer(c *gin.Context) {
	influencer, err := h.influencers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Influencer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load influencer: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, influencer)
}

// ListInfluencers handles GET /api/v1/influencers.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *InfluencerHandler) ListInfluencers(c *gin.Context) {
	organizationID := c.Query("organization_id")
	if organizationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organization_id is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	influencers, err := h.influencers.ListByOrganization(c.Request.Context(), organizationID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list influencers: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": influencers, "count": len(influencers)})
}

// DeleteInfluencer handles DELETE /api/v1/influencers/:id. Posts cascade.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *InfluencerHandler) DeleteInfluencer(c *gin.Context) {
	if err := h.influencers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Influencer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete influencer: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListPosts handles GET /api/v1/influencers/:id/posts.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *InfluencerHandler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.posts.ListByInfluencer(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": posts, "count": len(posts)})
}

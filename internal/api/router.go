package api

import (
	"github.com/gin-gonic/gin"
	"github.com/reachradar/reachradar/internal/api/handler"
	"github.com/reachradar/reachradar/internal/api/middleware"
	"github.com/reachradar/reachradar/internal/logger"
	"github.com/reachradar/reachradar/internal/repository"
	"github.com/reachradar/reachradar/internal/service"
	"github.com/reachradar/reachradar/internal/storage"
	"gorm.io/gorm"
)

// RouterDeps carries everything the router wires into handlers.
type RouterDeps struct {
	DB          *gorm.DB
	Influencers *repository.InfluencerRepository
	Posts       *repository.PostRepository
	ProfileSync *service.ProfileSyncService
	PostSync    *service.PostSyncService
	Runner      *service.TaskRunner
	Publisher   handler.WebhookPublisher
	Archiver    *storage.Archiver // nil when archiving is disabled
	Logger      *logger.Logger
	Mode        string
	CORS        middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps RouterDeps) *gin.Engine {
	// Set Gin mode
	switch deps.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler(deps.DB)
	influencerHandler := handler.NewInfluencerHandler(deps.Influencers, deps.Posts, deps.ProfileSync, deps.PostSync, deps.Runner)
	syncHandler := handler.NewSyncHandler(deps.ProfileSync, deps.PostSync)
	webhookHandler := handler.NewWebhookHandler(deps.Publisher, deps.Archiver)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Provider callback; kept outside /api/v1 because the path is
	// registered verbatim with the scraping provider.
	r.POST("/scrap-webhook/:jobId", webhookHandler.Receive)
	r.POST("/scrap-webhook", webhookHandler.Receive)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/influencers", influencerHandler.CreateInfluencer)
		v1.GET("/influencers", influencerHandler.ListInfluencers)
		v1.GET("/influencers/:id", influencerHandler.GetInfluencer)
		v1.DELETE("/influencers/:id", influencerHandler.DeleteInfluencer)
		v1.GET("/influencers/:id/posts", influencerHandler.ListPosts)

		v1.POST("/influencers/:id/sync/profile", syncHandler.TriggerProfileSync)
		v1.POST("/influencers/:id/sync/posts", syncHandler.TriggerPostSync)
	}

	return r
}

package router

import (
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/handler"
	"github.com/wahajaslm/tarco/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	classifyH *handler.ClassifyHandler,
	deterministicH *handler.DeterministicHandler,
	chatH *handler.ChatHandler,
	adminH *handler.AdminHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))

	v1 := r.Group("/api/v1")

	// Classification
	v1.POST("/classify", classifyH.Classify)
	v1.POST("/classify/answer", classifyH.Answer)

	// Deterministic payloads
	v1.POST("/deterministic", deterministicH.Build)
	v1.POST("/deterministic/explain", deterministicH.Explain)

	// Conversational resolution
	v1.POST("/chat/resolve", chatH.Resolve)
	v1.POST("/chat/answer", chatH.Answer)

	// Admin routes - require valid JWT
	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(cfg.JWT.Secret, cfg.JWT.Issuer))
	admin.POST("/reindex", adminH.Reindex)
	admin.GET("/reindex/status", adminH.ReindexStatus)

	return r
}

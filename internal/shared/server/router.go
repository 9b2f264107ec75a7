package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authapi "aideo-backend/internal/auth"
	"aideo-backend/internal/documents"
	"aideo-backend/internal/ingest"
	sharedauth "aideo-backend/internal/shared/auth"
	"aideo-backend/internal/shared/config"
	"aideo-backend/internal/shared/metrics"
	"aideo-backend/internal/shared/server/middleware"
	"aideo-backend/internal/shared/server/respond"
)

// RouterDeps carries everything NewRouter needs to wire routes.
type RouterDeps struct {
	Config           config.Config
	Tokens           *sharedauth.Tokens
	UserResolver     middleware.SubjectResolver
	AuthHandler      *authapi.Handler
	DocumentsHandler *documents.Handler
	IngestHandler    *ingest.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	// Credential routes are throttled per client IP.
	limiter := middleware.NewRateLimiter(time.Now)
	public := api.Group("", middleware.RateLimit(limiter, middleware.RateLimitRule{Rate: 1, Burst: 10}))
	deps.AuthHandler.RegisterRoutes(public)

	protected := api.Group("", middleware.Auth(deps.Tokens, deps.UserResolver))
	deps.DocumentsHandler.RegisterRoutes(protected)
	deps.IngestHandler.RegisterRoutes(protected)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

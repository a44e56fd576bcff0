package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/analysis"
	"recruit-backend/internal/resumes"
	"recruit-backend/internal/shared/auth"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
	"recruit-backend/internal/users"
)

// RouterDeps carries the handlers and cross-cutting pieces the router wires
// up. Handlers are constructed in bootstrap so tests can swap them out.
type RouterDeps struct {
	Config          config.Config
	Verifier        *auth.Verifier
	RateLimiter     *middleware.RateLimiter
	ResumesHandler  *resumes.Handler
	AnalysisHandler *analysis.Handler
	UsersHandler    *users.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}

	api := r.Group("/api/v1")
	api.Use(
		middleware.Auth(deps.Verifier),
		middleware.RateLimit(limiter, middleware.RateLimitRule{Rate: 10, Burst: 30}),
	)
	if deps.UsersHandler != nil {
		api.Use(deps.UsersHandler.IdentitySync())
	}

	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

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

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "jobtracker-backend/internal/auth"
	"jobtracker-backend/internal/emails"
	"jobtracker-backend/internal/jobs"
	"jobtracker-backend/internal/resumes"
	"jobtracker-backend/internal/services/health"
	"jobtracker-backend/internal/shared/config"
	"jobtracker-backend/internal/shared/metrics"
	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/server/respond"
	"jobtracker-backend/internal/tasks"
	"jobtracker-backend/internal/users"
)

const (
	apiPrefix     = "/api/v1"
	generateGroup = "GENERATE"
)

// RouterDeps carries everything the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config        config.Config
	Verifier      middleware.TokenVerifier
	Users         UserEnsurer
	Health        *health.Service
	Limiter       *middleware.RateLimiter
	GoogleAuth    *googleauth.GoogleService
	UserHandler   *users.Handler
	JobHandler    *jobs.Handler
	TaskHandler   *tasks.Handler
	ResumeHandler *resumes.Handler
	EmailHandler  *emails.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(middleware.AuthConfig{
			Verifier:       deps.Verifier,
			AllowDevHeader: cfg.IsDevLike(),
			PublicPrefixes: []string{apiPrefix + "/health", apiPrefix + "/metrics", apiPrefix + "/auth/"},
		}),
		ensureUser(deps.Users),
	)

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})
	api.GET("/metrics", metrics.Handler())
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	registerMeRoutes(api)

	rules := map[string]middleware.RateLimitRule{}
	if cfg.GenerateRatePerMin > 0 {
		rules[generateGroup] = middleware.PerMinute(cfg.GenerateRatePerMin)
	}
	gen := api.Group("", middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: generateGroup,
		Limiter:      deps.Limiter,
		Rules:        rules,
	}))

	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterRoutes(api)
	}
	if deps.TaskHandler != nil {
		deps.TaskHandler.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.EmailHandler != nil {
		deps.EmailHandler.RegisterRoutes(api, gen)
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

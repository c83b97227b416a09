package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/frontdesk-api/internal/middleware"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers groups the route sets by the access they require.
type Handlers struct {
	// Public needs no token.
	Health Handler
	// Identified needs a valid token but not an allowlist entry.
	Auth Handler
	// Protected needs an allowlisted identity.
	Appointment Handler
	Report      Handler
	Patient     Handler
	Clinic      Handler
	// Admin needs an allowlisted admin.
	User Handler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *metrics.Metrics
}

type RouterConfig struct {
	Mode        string
	RateLimit   rate.Limit
	RateBurst   int
	LimitStore  middleware.LimitStore
	CORSConfig  middleware.CORSConfig
	MaxBodySize int64
	Logger      zerolog.Logger
	Metrics     *metrics.Metrics
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config RouterConfig) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = middleware.DefaultMaxBodySize
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  config.Metrics,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(config.Logger),
		middleware.Logger(config.Logger),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(),
		middleware.CORS(config.CORSConfig),
		middleware.SizeLimit(config.MaxBodySize),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:   config.RateLimit,
		Burst:  config.RateBurst,
		Store:  config.LimitStore,
		Logger: &config.Logger,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	register(api, r.handlers.Health)

	identified := api.Group("")
	identified.Use(r.auth.Identify())
	register(identified, r.handlers.Auth)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	register(protected, r.handlers.Appointment)
	register(protected, r.handlers.Report)
	register(protected, r.handlers.Patient)
	register(protected, r.handlers.Clinic)

	admin := protected.Group("")
	admin.Use(r.auth.RequireAdmin())
	register(admin, r.handlers.User)
}

func register(rg *gin.RouterGroup, h Handler) {
	if h != nil {
		h.RegisterRoutes(rg)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		r.metrics.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

// LimitStore counts requests across API replicas.
type LimitStore interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
	// IdleTTL is how long a client's limiter is kept after its last request.
	IdleTTL time.Duration

	// Store, when set, is consulted instead of the local buckets. If it
	// fails the local bucket decides.
	Store  LimitStore
	Logger *zerolog.Logger
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	config   RateLimiterConfig
	limiters *gocache.Cache
	logger   zerolog.Logger
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &RateLimiter{
		config:   config,
		limiters: gocache.New(config.IdleTTL, config.IdleTTL),
		logger:   logger,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limiters.Get(key); ok {
		limiter := v.(*rate.Limiter)
		rl.limiters.SetDefault(key, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	rl.limiters.SetDefault(key, limiter)
	return limiter
}

func (rl *RateLimiter) allow(c *gin.Context) (bool, time.Duration) {
	key := c.ClientIP()
	if rl.config.Store != nil {
		ok, retryAfter, err := rl.config.Store.Allow(c.Request.Context(), key)
		if err == nil {
			return ok, retryAfter
		}
		rl.logger.Warn().Err(err).Msg("shared rate limit store unavailable, using local limiter")
	}
	return rl.limiterFor(key).Allow(), time.Second
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.Rate <= 0 {
			c.Next()
			return
		}
		if ok, retryAfter := rl.allow(c); !ok {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.Response{
				Success: false,
				Error:   &httputil.Error{Code: "RateLimited", Message: "rate limit exceeded"},
			})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/logger"
	"github.com/liftmate/liftmate/pkg/ratelimit"
	"go.uber.org/zap"
)

const tooManyPosts = "too many posts, please try again later"

// RateLimit rejects requests once the client IP exceeds the limiter budget for scope.
// Limiter errors fail open: a Redis outage must not block posting.
func RateLimit(limiter ratelimit.Allower, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), scope, c.ClientIP())
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter/time.Second)))
			if wantsHTML(c) {
				c.String(http.StatusTooManyRequests, tooManyPosts)
			} else {
				common.ErrorResponse(c, http.StatusTooManyRequests, tooManyPosts)
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

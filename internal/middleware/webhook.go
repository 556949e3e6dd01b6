package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"todoflow/pkg/response"
)

// secretTokenHeader is set by Telegram on every webhook call when the
// webhook was registered with a secret_token.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookAuth rejects webhook calls that do not carry the configured
// shared secret. With no secret configured everything passes.
func (m Middleware) WebhookAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.secretToken == "" {
			c.Next()
			return
		}

		got := c.GetHeader(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(m.secretToken)) != 1 {
			m.l.Warnf(c.Request.Context(), "webhook auth: bad secret token from %s", c.ClientIP())
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimit throttles webhook calls per source address. Over-limit calls
// get 429; the limiter pool is LRU-bounded with idle expiry.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.every <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP()
		limiter, ok := m.limiters.Get(key)
		if !ok {
			limiter = rate.NewLimiter(m.every, m.burst)
			m.limiters.Add(key, limiter)
		}

		if !limiter.Allow() {
			m.l.Warnf(c.Request.Context(), "rate limit: rejecting %s", key)
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

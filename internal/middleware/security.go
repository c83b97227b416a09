package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders marks every response as uncacheable and not embeddable.
// Responses carry patient names and phone numbers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

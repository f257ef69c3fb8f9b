package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets hardening headers for the API.
// Scanner stations are shared devices, so responses default to no-store;
// handlers serving cacheable assets (badges) override Cache-Control.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self' data:; frame-ancestors 'none'")
		h.Set("Permissions-Policy", "camera=(self), microphone=(), geolocation=()")
		h.Set("Cache-Control", "no-store")

		c.Next()
	}
}

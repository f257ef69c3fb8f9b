package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestIDMaxLen longer client ids are replaced to keep logs bounded
const requestIDMaxLen = 64

// RequestID echoes X-Request-ID or generates one. Scanner clients retry a
// confirmed scan with the same id, so it ties the retries together in the logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if !validRequestID(rid) {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}

// RequestIDFrom the id assigned by RequestID, empty when it did not run
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// validRequestID accepts printable ASCII without spaces
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > requestIDMaxLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if rid[i] <= ' ' || rid[i] > '~' {
			return false
		}
	}
	return true
}

// Package httpmiddleware holds the gin middleware shared by every route:
// request identity, contextual logging, panic recovery, CORS and rate
// limiting.
package httpmiddleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

const requestIDKey = "httpmiddleware.requestID"

// RequestIDFrom returns the request identifier assigned by RequestID, or ""
// when the middleware is not installed.
func RequestIDFrom(c *gin.Context) string {
	id, _ := c.Value(requestIDKey).(string)
	return id
}

// RequestID tags every request with an identifier. A well-formed incoming
// X-Request-ID is trusted so identifiers survive proxy hops; anything else
// is replaced with a fresh UUID. The identifier is echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !plausibleRequestID(id) {
			id = uuid.New().String()
		}

		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// plausibleRequestID accepts short printable-ASCII identifiers only, so a
// hostile header cannot smuggle control bytes into the logs.
func plausibleRequestID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x20 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

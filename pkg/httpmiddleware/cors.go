package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig controls the cross-origin headers emitted by CORS.
type CORSConfig struct {
	// AllowOrigins lists origins permitted to call the API. Empty, or a
	// single "*", permits everyone.
	AllowOrigins []string
	// AllowHeaders lists request headers a browser may send. When empty the
	// preflight echoes back whatever the browser asked for.
	AllowHeaders []string
	// AllowCredentials permits cookies and Authorization headers. The
	// wildcard origin is not valid with credentials, so enabling this forces
	// per-origin matching.
	AllowCredentials bool
	// MaxAge is how long, in seconds, a browser may cache the preflight.
	MaxAge int
}

const corsMethods = "GET, POST, PUT, DELETE, OPTIONS"

// CORS answers preflight requests and stamps cross-origin headers on
// responses, matching origins case-insensitively.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	wildcard := len(cfg.AllowOrigins) == 0
	byOrigin := make(map[string]string, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			wildcard = true
			continue
		}
		byOrigin[strings.ToLower(o)] = o
	}
	if cfg.AllowCredentials {
		wildcard = false
	}

	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		granted := ""
		switch {
		case wildcard:
			granted = "*"
		default:
			granted = byOrigin[strings.ToLower(origin)]
		}

		preflight := c.Request.Method == http.MethodOptions &&
			c.GetHeader("Access-Control-Request-Method") != ""
		if preflight {
			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")

			if granted != "" {
				h.Set("Access-Control-Allow-Origin", granted)
				h.Set("Access-Control-Allow-Methods", corsMethods)
				if allowHeaders != "" {
					h.Set("Access-Control-Allow-Headers", allowHeaders)
				} else if asked := c.GetHeader("Access-Control-Request-Headers"); asked != "" {
					h.Set("Access-Control-Allow-Headers", asked)
				}
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if granted != "" {
			h.Set("Access-Control-Allow-Origin", granted)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}
		c.Next()
	}
}

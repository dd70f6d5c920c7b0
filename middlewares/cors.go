package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Cart-Session, Accept, Origin, Cache-Control, X-Requested-With"
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
)

// Origins is a set of allowed browser origins; "*" allows any.
type Origins map[string]bool

// ParseOrigins reads a comma separated origin list such as CORS_ORIGIN.
func ParseOrigins(list string) Origins {
	allowed := Origins{}
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}
	return allowed
}

// Allows reports whether a request from origin may proceed. Requests
// without an Origin header do not come from a browser and pass.
func (o Origins) Allows(origin string) bool {
	return origin == "" || o["*"] || o[origin]
}

// CORSMiddlewares echoes the matching origin back so credentials keep working.
func CORSMiddlewares(origins string) gin.HandlerFunc {
	allowed := ParseOrigins(origins)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()
		h.Add("Vary", "Origin")
		switch {
		case allowed["*"]:
			h.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Expose-Headers", "X-Cart-Session")
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

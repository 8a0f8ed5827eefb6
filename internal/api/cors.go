package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// cors echoes allowed origins back with credentials enabled and answers
// preflight requests with 204. Requests from other origins get no CORS
// headers, which makes the browser refuse the response.
func cors(allowed []string) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		origins[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := origins[origin]; ok {
			addCorsHeaders(c, origin)
		} else if origin != "" {
			zap.S().Debugf("Origin %s not allowed", origin)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func addCorsHeaders(c *gin.Context, origin string) {
	requested := c.GetHeader("Access-Control-Request-Headers")
	if requested == "" {
		requested = "*"
	}
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Access-Control-Allow-Credentials", "true")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", requested)
	c.Header("Vary", "Origin")
}

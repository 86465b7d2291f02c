package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Vinay-014/email-spam-report/internal/config"
)

// CORS answers preflight requests and stamps the response headers the
// browser clients expect. Defaults allow any origin.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	origins := "*"
	if len(cfg.Origins) > 0 {
		origins = strings.Join(cfg.Origins, ", ")
	}
	methods := "GET, POST, OPTIONS"
	if len(cfg.Methods) > 0 {
		methods = strings.Join(cfg.Methods, ", ")
	}
	headers := "authorization, x-client-info, apikey, content-type"
	if len(cfg.Headers) > 0 {
		headers = strings.Join(cfg.Headers, ", ")
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origins)
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the cross-origin policy for the API. Outside production an empty
// allowlist allows every origin. In production an empty allowlist disables CORS
// entirely and ok is false.
func CORS(allowedOrigins []string, isProduction bool) (handler gin.HandlerFunc, ok bool) {
	corsConfig := cors.DefaultConfig()
	switch {
	case len(allowedOrigins) > 0:
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	case !isProduction:
		corsConfig.AllowAllOrigins = true
	default:
		return nil, false
	}
	corsConfig.AddAllowMethods("GET", "POST", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Request-ID")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", "X-Request-ID")

	return cors.New(corsConfig), true
}

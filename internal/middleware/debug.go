package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/spark-api/pkg/errors"
	"github.com/noah-isme/spark-api/pkg/response"
)

// DebugOnly hides test-only routes unless debug endpoints are enabled.
func DebugOnly(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			response.Error(c, appErrors.ErrFeatureDisabled)
			c.Abort()
			return
		}
		c.Next()
	}
}

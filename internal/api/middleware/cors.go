package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS headers sent on every response
const (
	AllowOrigin  = "*"
	AllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	AllowHeaders = "Origin, X-Requested-With, Content-Type, Accept, Authorization"
)

// CORS permits cross-origin calls from any origin and answers every
// preflight with 200 and an empty body, whatever the path.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", AllowOrigin)
		c.Header("Access-Control-Allow-Methods", AllowMethods)
		c.Header("Access-Control-Allow-Headers", AllowHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

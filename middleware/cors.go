package middleware

import (
	"github.com/gin-gonic/gin"
)

// CORS echoes an explicitly listed origin and allows credentials for it. A "*"
// entry admits any other origin without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.GetHeader("Origin")

		var listed, wildcard bool
		for _, origin := range allowedOrigins {
			if origin == "*" {
				wildcard = true
			} else if requestOrigin != "" && origin == requestOrigin {
				listed = true
			}
		}

		switch {
		case listed:
			c.Header("Access-Control-Allow-Origin", requestOrigin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		case wildcard:
			c.Header("Access-Control-Allow-Origin", "*")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Location, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

package middleware

import (
	"net/http"

	"blogcms/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler logs errors attached with c.Error and answers 500 when the
// handler left the response empty.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log := logger.WithRequestID(GetRequestID(c))
		for _, err := range c.Errors {
			log.Error("Request failed", "path", c.FullPath(), "error", err.Error())
		}

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}
}

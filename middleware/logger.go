package middleware

import (
	"log/slog"

	"blogcms/logger"

	"github.com/gin-gonic/gin"
)

// Logger writes one structured access line per request through the slog
// logger, tagged with the request id.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID, _ := param.Keys[RequestIDKey].(string)

		level := slog.LevelInfo
		if param.StatusCode >= 500 {
			level = slog.LevelError
		}

		logger.Default().Log(param.Request.Context(), level, "request",
			slog.String("request_id", requestID),
			slog.String("method", param.Method),
			slog.String("path", param.Path),
			slog.Int("status", param.StatusCode),
			slog.Duration("latency", param.Latency),
			slog.String("client_ip", param.ClientIP),
		)

		// the line already went to slog; gin's writer gets nothing
		return ""
	})
}

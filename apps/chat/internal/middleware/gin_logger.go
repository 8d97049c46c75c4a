package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"ChatDDing/pkg/logger"
)

// GinLogger 请求访问日志
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		logger.Info(c.Request.Context(), "HTTP 请求",
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.String("query", query),
			logger.Int("status", c.Writer.Status()),
			logger.Int("business_code", c.GetInt("business_code")),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("cost", cost),
		)
	}
}

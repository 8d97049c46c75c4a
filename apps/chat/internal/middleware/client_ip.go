package middleware

import (
	"github.com/gin-gonic/gin"

	"ChatDDing/pkg/util"
)

// ClientIP 把客户端 IP 放进请求上下文，供日志与审计使用。
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(util.WithClientIP(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

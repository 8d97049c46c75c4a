package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"ChatDDing/consts"
	"ChatDDing/pkg/logger"
	"ChatDDing/pkg/result"
)

// Recover panic 兜底，记录堆栈后返回统一的内部错误响应。
func Recover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "请求处理 panic",
					logger.Any("panic", r),
					logger.String("path", c.Request.URL.Path),
					logger.String("stack", string(debug.Stack())),
				)
				result.Fail(c, nil, consts.CodeInternalError)
				c.Abort()
			}
		}()
		c.Next()
	}
}

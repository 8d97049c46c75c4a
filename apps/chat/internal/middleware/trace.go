package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ChatDDing/pkg/util"
)

// HeaderTraceID 链路追踪头
const HeaderTraceID = "X-Trace-Id"

// Trace 为每个请求注入 trace_id，优先透传上游带来的。
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.GetHeader(HeaderTraceID)
		if traceId == "" {
			traceId = uuid.NewString()
		}
		c.Set(util.ContextKeyTraceID, traceId)
		c.Request = c.Request.WithContext(util.WithTraceID(c.Request.Context(), traceId))
		c.Header(HeaderTraceID, traceId)
		c.Next()
	}
}

package util

import "context"

// Context 相关的 key 常量
const (
	ContextKeyTraceID  = "trace_id"
	ContextKeyUserID   = "user_id"
	ContextKeyClientIP = "client_ip"
)

type ctxKey string

// WithTraceID 向 context 注入 trace_id
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey(ContextKeyTraceID), traceID)
}

// WithUserID 向 context 注入当前登录用户 ID
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKey(ContextKeyUserID), userID)
}

// WithClientIP 向 context 注入客户端 IP
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKey(ContextKeyClientIP), ip)
}

// GetTraceIDFromContext 从 context 中获取 trace_id
// trace_id 由 TraceLogger 中间件生成并注入
func GetTraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(ctxKey(ContextKeyTraceID)).(string); ok {
		return traceID
	}
	return ""
}

// GetUserIDFromContext 从 context 中获取用户 ID（认证后的接口）
// 未注入时返回 0
func GetUserIDFromContext(ctx context.Context) int64 {
	if userID, ok := ctx.Value(ctxKey(ContextKeyUserID)).(int64); ok {
		return userID
	}
	return 0
}

// GetClientIPFromContext 从 context 中获取客户端 IP
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ctxKey(ContextKeyClientIP)).(string); ok {
		return ip
	}
	return ""
}

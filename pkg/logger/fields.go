package logger

import (
	"context"
	"strconv"
	"time"

	"ChatDDing/pkg/util"

	"go.uber.org/zap"
)

// 带 context 的日志封装：自动附加 trace_id / user_id，
// 业务代码只需 logger.Info(ctx, "...", logger.String(...)) 即可。

// Info 输出 info 日志并附加 context 元信息
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	if global == nil {
		return
	}
	global.Info(msg, appendCtxFields(ctx, fields)...)
}

// Warn 输出 warn 日志并附加 context 元信息
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	if global == nil {
		return
	}
	global.Warn(msg, appendCtxFields(ctx, fields)...)
}

// Error 输出 error 日志并附加 context 元信息
func Error(ctx context.Context, msg string, fields ...zap.Field) {
	if global == nil {
		return
	}
	global.Error(msg, appendCtxFields(ctx, fields)...)
}

// Debug 输出 debug 日志并附加 context 元信息
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	if global == nil {
		return
	}
	global.Debug(msg, appendCtxFields(ctx, fields)...)
}

func appendCtxFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	out := make([]zap.Field, 0, len(fields)+2)
	if traceID := util.GetTraceIDFromContext(ctx); traceID != "" {
		out = append(out, zap.String("trace_id", traceID))
	}
	if userID := util.GetUserIDFromContext(ctx); userID > 0 {
		out = append(out, zap.String("user_id", strconv.FormatInt(userID, 10)))
	}
	return append(out, fields...)
}

// 字段构造的便捷别名，避免业务层直接 import zap

func String(key, value string) zap.Field          { return zap.String(key, value) }
func Int(key string, value int) zap.Field         { return zap.Int(key, value) }
func Int64(key string, value int64) zap.Field     { return zap.Int64(key, value) }
func Bool(key string, value bool) zap.Field       { return zap.Bool(key, value) }
func Any(key string, value interface{}) zap.Field { return zap.Any(key, value) }
func Duration(key string, value time.Duration) zap.Field {
	return zap.Duration(key, value)
}

// ErrorField 错误字段（err 为 nil 时输出空字符串）
func ErrorField(key string, err error) zap.Field {
	if err == nil {
		return zap.String(key, "")
	}
	return zap.String(key, err.Error())
}

package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"ChatDDing/consts"
	"ChatDDing/pkg/result"
	"ChatDDing/pkg/util"
)

// limiterEntry 带最近访问时间，便于清理长期不活跃的条目。
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按用户（未认证请求按 IP）的内存令牌桶限流。
type RateLimiter struct {
	mu       sync.Mutex
	entries  map[string]*limiterEntry
	rps      rate.Limit
	burst    int
	maxIdle  time.Duration
	lastSwep time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		entries:  map[string]*limiterEntry{},
		rps:      rate.Limit(rps),
		burst:    burst,
		maxIdle:  10 * time.Minute,
		lastSwep: time.Now(),
	}
}

// Handler 返回 gin 中间件
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userId := util.GetUserIDFromContext(c.Request.Context()); userId > 0 {
			key = "u:" + strconv.FormatInt(userId, 10)
		}
		if !rl.allow(key) {
			result.Fail(c, nil, consts.CodeTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// 顺带清理过期条目，避免 map 无界增长
	if now.Sub(rl.lastSwep) > rl.maxIdle {
		for k, entry := range rl.entries {
			if now.Sub(entry.lastSeen) > rl.maxIdle {
				delete(rl.entries, k)
			}
		}
		rl.lastSwep = now
	}

	entry, ok := rl.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

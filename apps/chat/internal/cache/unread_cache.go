package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"ChatDDing/pkg/logger"
)

const (
	unreadKeyPrefix = "unread:"
	unreadTTL       = 24 * time.Hour
)

// UnreadCountCache 未读数缓存。
// 全部操作失败降级：读按 miss 处理，写按 no-op 处理，绝不向上抛错。
type UnreadCountCache interface {
	// Get 读取未读数，第二个返回值表示是否命中。
	Get(ctx context.Context, roomId, userId int64) (int64, bool)

	// Set 写入未读数并刷新 TTL
	Set(ctx context.Context, roomId, userId, count int64)

	// Increment 未读数 +1 并刷新 TTL
	Increment(ctx context.Context, roomId, userId int64)

	// Reset 未读数清零并刷新 TTL
	Reset(ctx context.Context, roomId, userId int64)

	// BatchGet 批量读取多个房间的未读数，仅返回命中的条目。
	BatchGet(ctx context.Context, roomIds []int64, userId int64) map[int64]int64
}

type redisUnreadCountCache struct {
	client  *goredis.Client
	breaker *gobreaker.CircuitBreaker
}

// NewRedisUnreadCountCache 创建 Redis 未读数缓存。
// 熔断器打开期间所有操作直接降级，避免 Redis 故障拖垮请求链路。
func NewRedisUnreadCountCache(client *goredis.Client) UnreadCountCache {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "unread-cache",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "未读缓存熔断器状态变更",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return &redisUnreadCountCache{client: client, breaker: breaker}
}

func unreadKey(roomId, userId int64) string {
	return fmt.Sprintf("%s%d:%d", unreadKeyPrefix, roomId, userId)
}

func (c *redisUnreadCountCache) Get(ctx context.Context, roomId, userId int64) (int64, bool) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		value, err := c.client.Get(ctx, unreadKey(roomId, userId)).Result()
		if err == goredis.Nil {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, err
		}
		return count, nil
	})
	if err != nil {
		logger.Warn(ctx, "未读缓存读取失败，按 miss 处理",
			logger.Int64("room_id", roomId), logger.Int64("target_user_id", userId), logger.ErrorField("error", err))
		return 0, false
	}
	if result == nil {
		return 0, false
	}
	return result.(int64), true
}

func (c *redisUnreadCountCache) Set(ctx context.Context, roomId, userId, count int64) {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, unreadKey(roomId, userId), count, unreadTTL).Err()
	})
	if err != nil {
		logger.Warn(ctx, "未读缓存写入失败，忽略",
			logger.Int64("room_id", roomId), logger.Int64("target_user_id", userId), logger.ErrorField("error", err))
	}
}

func (c *redisUnreadCountCache) Increment(ctx context.Context, roomId, userId int64) {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		key := unreadKey(roomId, userId)
		pipe := c.client.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, unreadTTL)
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	if err != nil {
		logger.Warn(ctx, "未读缓存自增失败，忽略",
			logger.Int64("room_id", roomId), logger.Int64("target_user_id", userId), logger.ErrorField("error", err))
	}
}

func (c *redisUnreadCountCache) Reset(ctx context.Context, roomId, userId int64) {
	c.Set(ctx, roomId, userId, 0)
}

func (c *redisUnreadCountCache) BatchGet(ctx context.Context, roomIds []int64, userId int64) map[int64]int64 {
	hits := make(map[int64]int64, len(roomIds))
	if len(roomIds) == 0 {
		return hits
	}

	keys := make([]string, 0, len(roomIds))
	for _, roomId := range roomIds {
		keys = append(keys, unreadKey(roomId, userId))
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.MGet(ctx, keys...).Result()
	})
	if err != nil {
		logger.Warn(ctx, "未读缓存批量读取失败，全部按 miss 处理",
			logger.Int64("target_user_id", userId), logger.Int("rooms", len(roomIds)), logger.ErrorField("error", err))
		return hits
	}

	values := result.([]interface{})
	for i, raw := range values {
		if i >= len(roomIds) || raw == nil {
			continue
		}
		str, ok := raw.(string)
		if !ok {
			continue
		}
		count, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			continue
		}
		hits[roomIds[i]] = count
	}
	return hits
}

package cache

import "context"

// noopUnreadCountCache Redis 不可用时的空实现。
// 读全部 miss（触发 DB 回源），写全部丢弃。
type noopUnreadCountCache struct{}

// NewNoopUnreadCountCache 创建空未读数缓存
func NewNoopUnreadCountCache() UnreadCountCache {
	return noopUnreadCountCache{}
}

func (noopUnreadCountCache) Get(ctx context.Context, roomId, userId int64) (int64, bool) {
	return 0, false
}
func (noopUnreadCountCache) Set(ctx context.Context, roomId, userId, count int64)   {}
func (noopUnreadCountCache) Increment(ctx context.Context, roomId, userId int64)    {}
func (noopUnreadCountCache) Reset(ctx context.Context, roomId, userId int64)        {}
func (noopUnreadCountCache) BatchGet(ctx context.Context, roomIds []int64, userId int64) map[int64]int64 {
	return map[int64]int64{}
}

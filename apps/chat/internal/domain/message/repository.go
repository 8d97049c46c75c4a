package message

import (
	"context"
	"time"
)

// Repository 消息仓储接口。
// 消息 id 单调递增（雪花算法），房间内 id 序即时间序，游标统一用消息 id。
type Repository interface {
	// Save 插入或整体更新消息
	Save(ctx context.Context, m *Message) error

	// FindByID 按 ID 查询，不存在返回 ErrMessageNotFound。
	FindByID(ctx context.Context, messageId int64) (*Message, error)

	// FindByRoomBeforeCursor 查询房间内 id < cursor 的消息，id 倒序取 limit 条。
	// cursor <= 0 表示从最新开始。
	FindByRoomBeforeCursor(ctx context.Context, roomId, cursor int64, limit int) ([]*Message, error)

	// FindByRoomSince 查询房间内 created_at >= since 的消息，id 升序。
	FindByRoomSince(ctx context.Context, roomId int64, since time.Time) ([]*Message, error)

	// FindLatestVisibleByRoom 查询用户可见（未被其软删除）的房间最新一条消息，
	// 无可见消息返回 ErrMessageNotFound。
	FindLatestVisibleByRoom(ctx context.Context, roomId, userId int64) (*Message, error)

	// FindByRoomLatest 查询房间最新的 limit 条消息，id 倒序。
	FindByRoomLatest(ctx context.Context, roomId int64, limit int) ([]*Message, error)

	// CountUnread 统计用户在房间内的未读数（排除其已软删除的消息）。
	CountUnread(ctx context.Context, roomId, userId int64) (int64, error)

	// BulkMarkRead 批量落库已读标记，返回本次实际新增已读的条数。幂等。
	BulkMarkRead(ctx context.Context, roomId, userId int64, readAt time.Time) (int64, error)

	// DeleteByID 物理删除
	DeleteByID(ctx context.Context, messageId int64) error
}

package room

import "context"

// Repository 聊天室仓储接口。
// 所有查询基于 MySQL 文档化表 chat_room，实现见 repository_impl.go。
type Repository interface {
	// Save 插入或整体更新房间。去重键冲突返回 ErrDuplicateRoom。
	Save(ctx context.Context, r *Room) error

	// FindByID 按 ID 查询，不存在返回 ErrRoomNotFound。
	FindByID(ctx context.Context, roomId int64) (*Room, error)

	// FindDmByPair 按参与者对查询已有 DM，不存在返回 ErrRoomNotFound。
	FindDmByPair(ctx context.Context, userA, userB int64) (*Room, error)

	// FindPlaceInquiry 按 (contextId, guestId) 查询已有咨询房间，不存在返回 ErrRoomNotFound。
	FindPlaceInquiry(ctx context.Context, contextId, guestId int64) (*Room, error)

	// FindActiveByParticipant 查询用户参与的全部活跃房间，按 last_message_at 倒序。
	FindActiveByParticipant(ctx context.Context, userId int64) ([]*Room, error)

	// FindPlaceInquiriesByHost 查询房东名下的全部活跃咨询房间，按 last_message_at 倒序。
	// contextId > 0 时仅返回绑定该外部实体的房间。
	FindPlaceInquiriesByHost(ctx context.Context, hostId, contextId int64) ([]*Room, error)

	// FindPendingSupport 游标分页查询待指派客服房间（FIFO，id 升序，id > cursor）。
	FindPendingSupport(ctx context.Context, cursor int64, limit int) ([]*Room, error)

	// CountPendingSupport 统计待指派客服房间总数。
	CountPendingSupport(ctx context.Context) (int64, error)
}

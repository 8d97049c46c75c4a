package usecase

import (
	"context"
	"time"

	"ChatDDing/apps/chat/internal/cache"
	"ChatDDing/apps/chat/internal/domain/message"
	"ChatDDing/apps/chat/internal/domain/room"
	"ChatDDing/apps/chat/internal/event"
	"ChatDDing/pkg/id"
)

// DefaultQueuePageSize 客服队列默认分页条数
const DefaultQueuePageSize = 20

// MaxQueuePageSize 客服队列最大分页条数
const MaxQueuePageSize = 100

// SupportUsecase 客服会话应用服务
type SupportUsecase struct {
	roomRepo    room.Repository
	messageRepo message.Repository
	unreadCache cache.UnreadCountCache
	publisher   event.Publisher
	idGen       id.Generator
	now         func() time.Time
}

// NewSupportUsecase 创建客服应用服务
func NewSupportUsecase(
	roomRepo room.Repository,
	messageRepo message.Repository,
	unreadCache cache.UnreadCountCache,
	publisher event.Publisher,
	idGen id.Generator,
) *SupportUsecase {
	return &SupportUsecase{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		unreadCache: unreadCache,
		publisher:   publisher,
		idGen:       idGen,
		now:         time.Now,
	}
}

// CreateSupport 用户发起客服请求，可附带首条消息。
func (u *SupportUsecase) CreateSupport(ctx context.Context, userId int64, initialContent string) (*room.Room, error) {
	now := u.now()
	newRoom := room.NewSupport(u.idGen.NextID(), userId, now)
	if err := u.roomRepo.Save(ctx, newRoom); err != nil {
		return nil, err
	}

	if initialContent != "" {
		msg, err := message.New(u.idGen.NextID(), newRoom.Id, userId, initialContent, now)
		if err != nil {
			return nil, err
		}
		if err := u.messageRepo.Save(ctx, msg); err != nil {
			return nil, err
		}
		newRoom.UpdateLastMessageAt(&now)
		if err := u.roomRepo.Save(ctx, newRoom); err != nil {
			return nil, err
		}
	}

	u.publisher.Publish(ctx, event.NewSupportRequestCreated(newRoom.Id, userId, now))
	return newRoom, nil
}

// SupportQueuePage 客服待接队列分页结果
type SupportQueuePage struct {
	Rooms      []*room.Room
	HasMore    bool
	NextCursor int64
	TotalCount int64
}

// GetQueue 客服视角的待接队列，FIFO（创建早的在前），游标为房间 id。
func (u *SupportUsecase) GetQueue(ctx context.Context, cursor int64, limit int) (*SupportQueuePage, error) {
	if limit <= 0 {
		limit = DefaultQueuePageSize
	}
	if limit > MaxQueuePageSize {
		limit = MaxQueuePageSize
	}

	fetched, err := u.roomRepo.FindPendingSupport(ctx, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(fetched) > limit
	if hasMore {
		fetched = fetched[:limit]
	}

	var nextCursor int64
	if hasMore && len(fetched) > 0 {
		nextCursor = fetched[len(fetched)-1].Id
	}

	total, err := u.roomRepo.CountPendingSupport(ctx)
	if err != nil {
		return nil, err
	}

	return &SupportQueuePage{
		Rooms:      fetched,
		HasMore:    hasMore,
		NextCursor: nextCursor,
		TotalCount: total,
	}, nil
}

// AssignAgent 客服认领会话。
// 并发认领由聚合校验兜底：先到者入房，后到者收 ErrAgentAlreadyAssigned。
func (u *SupportUsecase) AssignAgent(ctx context.Context, roomId, agentId int64) (*room.Room, error) {
	r, err := u.roomRepo.FindByID(ctx, roomId)
	if err != nil {
		return nil, err
	}

	now := u.now()
	if err := r.AssignAgent(agentId, now); err != nil {
		return nil, err
	}
	if err := u.roomRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	u.publisher.Publish(ctx, event.NewSupportAgentAssigned(roomId, agentId, now))
	return r, nil
}

// Close 关闭客服会话，仅房间成员可操作，重复关闭返回 ErrRoomClosed。
func (u *SupportUsecase) Close(ctx context.Context, roomId, userId int64) error {
	r, err := u.roomRepo.FindByID(ctx, roomId)
	if err != nil {
		return err
	}
	if r.Type != room.TypeSupport {
		return room.ErrNotSupportRoom
	}
	if !r.IsParticipant(userId) {
		return room.ErrNotParticipant
	}

	now := u.now()
	if err := r.Close(now); err != nil {
		return err
	}
	if err := u.roomRepo.Save(ctx, r); err != nil {
		return err
	}

	u.publisher.Publish(ctx, event.NewSupportChatClosed(roomId, userId, now))
	return nil
}

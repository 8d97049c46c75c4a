package usecase

import (
	"context"
	"errors"
	"time"

	"ChatDDing/apps/chat/internal/cache"
	"ChatDDing/apps/chat/internal/domain/message"
	"ChatDDing/apps/chat/internal/domain/room"
	"ChatDDing/apps/chat/internal/event"
	"ChatDDing/pkg/id"
	"ChatDDing/pkg/logger"
)

// DefaultPageSize 消息分页默认条数
const DefaultPageSize = 20

// MaxPageSize 消息分页最大条数
const MaxPageSize = 100

// markReadAnchorSlack 已读锚点回溯量，吸收消息时间戳的毫秒级抖动。
const markReadAnchorSlack = time.Second

// markReadFallbackLimit 无锚点时兜底扫描的最新消息条数
const markReadFallbackLimit = 100

// MessageUsecase 消息相关应用服务
type MessageUsecase struct {
	roomRepo    room.Repository
	messageRepo message.Repository
	unreadCache cache.UnreadCountCache
	publisher   event.Publisher
	idGen       id.Generator
	now         func() time.Time
}

// NewMessageUsecase 创建消息应用服务
func NewMessageUsecase(
	roomRepo room.Repository,
	messageRepo message.Repository,
	unreadCache cache.UnreadCountCache,
	publisher event.Publisher,
	idGen id.Generator,
) *MessageUsecase {
	return &MessageUsecase{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		unreadCache: unreadCache,
		publisher:   publisher,
		idGen:       idGen,
		now:         time.Now,
	}
}

// Send 发送消息。
// 校验顺序固定：房间存在 -> 成员身份 -> 房间状态 -> 内容合法。
func (u *MessageUsecase) Send(ctx context.Context, roomId, senderId int64, content string) (*message.Message, error) {
	r, err := u.roomRepo.FindByID(ctx, roomId)
	if err != nil {
		return nil, err
	}
	if !r.IsParticipant(senderId) {
		return nil, room.ErrNotParticipant
	}
	if !r.IsActive() {
		return nil, room.ErrRoomClosed
	}

	now := u.now()
	msg, err := message.New(u.idGen.NextID(), roomId, senderId, content, now)
	if err != nil {
		return nil, err
	}
	if err := u.messageRepo.Save(ctx, msg); err != nil {
		return nil, err
	}

	r.UpdateLastMessageAt(&now)
	if err := u.roomRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	// 发送者自身已读，未读数只给其他成员加
	for _, otherId := range r.OtherParticipantIds(senderId) {
		u.unreadCache.Increment(ctx, roomId, otherId)
	}
	u.publisher.Publish(ctx, event.NewMessageSent(roomId, senderId, msg.Id, msg.ContentPreview(), now))
	return msg, nil
}

// MessagePage 消息分页结果
type MessagePage struct {
	Messages   []*message.Message
	HasMore    bool
	NextCursor int64
}

// GetMessages 游标分页拉取历史消息（新到旧），过滤请求者已删除的消息。
// 拉取同时异步触发自动已读（缓存归零 + 发 MESSAGE_READ 事件）。
func (u *MessageUsecase) GetMessages(ctx context.Context, roomId, userId, cursor int64, limit int) (*MessagePage, error) {
	r, err := u.roomRepo.FindByID(ctx, roomId)
	if err != nil {
		return nil, err
	}
	if !r.IsParticipant(userId) {
		return nil, room.ErrNotParticipant
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	// 多取一条判断是否还有下一页
	fetched, err := u.messageRepo.FindByRoomBeforeCursor(ctx, roomId, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(fetched) > limit
	if hasMore {
		fetched = fetched[:limit]
	}

	visible := make([]*message.Message, 0, len(fetched))
	for _, m := range fetched {
		if m.IsVisibleTo(userId) {
			visible = append(visible, m)
		}
	}

	var nextCursor int64
	if hasMore && len(fetched) > 0 {
		nextCursor = fetched[len(fetched)-1].Id
	}

	u.triggerAutoRead(ctx, roomId, userId)

	return &MessagePage{Messages: visible, HasMore: hasMore, NextCursor: nextCursor}, nil
}

// triggerAutoRead 拉取即已读。
// 缓存命中且已为 0 时跳过，避免重复发事件；否则归零并发 MESSAGE_READ。
func (u *MessageUsecase) triggerAutoRead(ctx context.Context, roomId, userId int64) {
	if count, hit := u.unreadCache.Get(ctx, roomId, userId); hit && count == 0 {
		return
	}
	now := u.now()
	u.unreadCache.Reset(ctx, roomId, userId)
	u.publisher.Publish(ctx, event.NewMessageRead(roomId, userId, now))
}

// MarkAsRead 同步标记已读。
// anchorMessageId 指定锚点消息：从锚点时间前 1 秒起扫描；为 0 时兜底扫描最新 100 条。
// 返回本次新标记已读的条数。
func (u *MessageUsecase) MarkAsRead(ctx context.Context, roomId, userId, anchorMessageId int64) (int64, error) {
	r, err := u.roomRepo.FindByID(ctx, roomId)
	if err != nil {
		return 0, err
	}
	participant := r.FindParticipant(userId)
	if participant == nil {
		return 0, room.ErrNotParticipant
	}

	now := u.now()
	targets, err := u.collectMarkTargets(ctx, roomId, anchorMessageId)
	if err != nil {
		return 0, err
	}

	var marked int64
	for _, m := range targets {
		if !m.MarkAsReadAt(userId, now) {
			continue
		}
		if err := u.messageRepo.Save(ctx, m); err != nil {
			return marked, err
		}
		marked++
	}

	participant.UpdateLastReadAt(now)
	if err := u.roomRepo.Save(ctx, r); err != nil {
		return marked, err
	}

	u.unreadCache.Reset(ctx, roomId, userId)
	return marked, nil
}

func (u *MessageUsecase) collectMarkTargets(ctx context.Context, roomId, anchorMessageId int64) ([]*message.Message, error) {
	if anchorMessageId > 0 {
		anchor, err := u.messageRepo.FindByID(ctx, anchorMessageId)
		if err == nil && anchor.RoomId == roomId {
			return u.messageRepo.FindByRoomSince(ctx, roomId, anchor.CreatedAt.Add(-markReadAnchorSlack))
		}
		if err != nil && !errors.Is(err, message.ErrMessageNotFound) {
			return nil, err
		}
		// 锚点丢失或不属于该房间，落兜底分支
	}
	return u.messageRepo.FindByRoomLatest(ctx, roomId, markReadFallbackLimit)
}

// Delete 删除消息（按人软删除，全员删完物理删除）。
// 仅房间成员可删，重复删除幂等。
func (u *MessageUsecase) Delete(ctx context.Context, messageId, userId int64) error {
	msg, err := u.messageRepo.FindByID(ctx, messageId)
	if err != nil {
		return err
	}
	r, err := u.roomRepo.FindByID(ctx, msg.RoomId)
	if err != nil {
		return err
	}
	if !r.IsParticipant(userId) {
		return room.ErrNotParticipant
	}

	msg.DeleteFor(userId)
	hardDeleted := msg.ShouldHardDelete(len(r.Participants))
	if hardDeleted {
		if err := u.messageRepo.DeleteByID(ctx, messageId); err != nil {
			return err
		}
	} else {
		if err := u.messageRepo.Save(ctx, msg); err != nil {
			return err
		}
	}

	now := u.now()
	u.publisher.Publish(ctx, event.NewMessageDeleted(msg.RoomId, userId, messageId, hardDeleted, now))
	logger.Info(ctx, "消息删除完成",
		logger.Int64("message_id", messageId),
		logger.Int64("room_id", msg.RoomId),
		logger.Bool("hard_deleted", hardDeleted))
	return nil
}

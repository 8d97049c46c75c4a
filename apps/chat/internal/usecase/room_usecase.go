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

// RoomUsecase 房间相关应用服务
type RoomUsecase struct {
	roomRepo    room.Repository
	messageRepo message.Repository
	unreadCache cache.UnreadCountCache
	publisher   event.Publisher
	idGen       id.Generator
	now         func() time.Time
}

// NewRoomUsecase 创建房间应用服务
func NewRoomUsecase(
	roomRepo room.Repository,
	messageRepo message.Repository,
	unreadCache cache.UnreadCountCache,
	publisher event.Publisher,
	idGen id.Generator,
) *RoomUsecase {
	return &RoomUsecase{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		unreadCache: unreadCache,
		publisher:   publisher,
		idGen:       idGen,
		now:         time.Now,
	}
}

// CreateRoomResult 创建房间结果，IsNewRoom 标识是否新建。
type CreateRoomResult struct {
	Room      *room.Room
	IsNewRoom bool
}

// CreateDm 创建私聊房间。
// 同一对用户只保留一个 DM：已存在直接返回且不补发初始消息。
func (u *RoomUsecase) CreateDm(ctx context.Context, creatorId, peerId int64, initialContent string) (*CreateRoomResult, error) {
	if creatorId == peerId {
		return nil, room.ErrCannotChatSelf
	}

	existing, err := u.roomRepo.FindDmByPair(ctx, creatorId, peerId)
	if err == nil {
		return &CreateRoomResult{Room: existing, IsNewRoom: false}, nil
	}
	if !errors.Is(err, room.ErrRoomNotFound) {
		return nil, err
	}

	now := u.now()
	newRoom, err := room.NewDm(u.idGen.NextID(), creatorId, peerId, now)
	if err != nil {
		return nil, err
	}

	if err := u.roomRepo.Save(ctx, newRoom); err != nil {
		// 并发创建撞唯一索引：回查对方已创建的房间
		if errors.Is(err, room.ErrDuplicateRoom) {
			winner, findErr := u.roomRepo.FindDmByPair(ctx, creatorId, peerId)
			if findErr != nil {
				return nil, findErr
			}
			return &CreateRoomResult{Room: winner, IsNewRoom: false}, nil
		}
		return nil, err
	}

	if initialContent != "" {
		if err := u.sendInitialMessage(ctx, newRoom, creatorId, initialContent); err != nil {
			return nil, err
		}
	}

	u.publisher.Publish(ctx, event.NewDmCreated(newRoom.Id, creatorId, peerId, now))
	return &CreateRoomResult{Room: newRoom, IsNewRoom: true}, nil
}

// CreateGroup 创建群聊房间
func (u *RoomUsecase) CreateGroup(ctx context.Context, ownerId int64, name string, memberIds []int64) (*room.Room, error) {
	now := u.now()
	newRoom, err := room.NewGroup(u.idGen.NextID(), ownerId, name, memberIds, now)
	if err != nil {
		return nil, err
	}
	if err := u.roomRepo.Save(ctx, newRoom); err != nil {
		return nil, err
	}
	u.publisher.Publish(ctx, event.NewGroupCreated(newRoom.Id, ownerId, now))
	return newRoom, nil
}

// CreatePlaceInquiry 创建场地咨询房间。
// 去重键 (contextId, guestId)：已存在复用房间，但初始消息照发（每次咨询都是新诉求）。
func (u *RoomUsecase) CreatePlaceInquiry(ctx context.Context, guestId, hostId int64, pc room.PlaceContext, initialContent string) (*CreateRoomResult, error) {
	existing, err := u.roomRepo.FindPlaceInquiry(ctx, pc.ContextId, guestId)
	if err == nil {
		if initialContent != "" {
			if err := u.sendInitialMessage(ctx, existing, guestId, initialContent); err != nil {
				return nil, err
			}
		}
		return &CreateRoomResult{Room: existing, IsNewRoom: false}, nil
	}
	if !errors.Is(err, room.ErrRoomNotFound) {
		return nil, err
	}

	now := u.now()
	newRoom, err := room.NewPlaceInquiry(u.idGen.NextID(), guestId, hostId, pc, now)
	if err != nil {
		return nil, err
	}

	if err := u.roomRepo.Save(ctx, newRoom); err != nil {
		if errors.Is(err, room.ErrDuplicateRoom) {
			winner, findErr := u.roomRepo.FindPlaceInquiry(ctx, pc.ContextId, guestId)
			if findErr != nil {
				return nil, findErr
			}
			if initialContent != "" {
				if err := u.sendInitialMessage(ctx, winner, guestId, initialContent); err != nil {
					return nil, err
				}
			}
			return &CreateRoomResult{Room: winner, IsNewRoom: false}, nil
		}
		return nil, err
	}

	if initialContent != "" {
		if err := u.sendInitialMessage(ctx, newRoom, guestId, initialContent); err != nil {
			return nil, err
		}
	}

	u.publisher.Publish(ctx, event.NewInquiryCreated(newRoom.Id, guestId, hostId, now))
	return &CreateRoomResult{Room: newRoom, IsNewRoom: true}, nil
}

// RoomSummary 房间列表条目
type RoomSummary struct {
	Room               *room.Room
	UnreadCount        int64
	LastMessagePreview string
	LastMessageAt      *time.Time
}

// ListRooms 查询用户活跃房间列表，含未读数（cache-aside）与最新消息预览。
func (u *RoomUsecase) ListRooms(ctx context.Context, userId int64) ([]*RoomSummary, error) {
	rooms, err := u.roomRepo.FindActiveByParticipant(ctx, userId)
	if err != nil {
		return nil, err
	}
	return u.buildSummaries(ctx, rooms, userId), nil
}

// GetRoomDetail 查询房间详情，要求请求者为成员。
func (u *RoomUsecase) GetRoomDetail(ctx context.Context, roomId, userId int64) (*room.Room, error) {
	r, err := u.roomRepo.FindByID(ctx, roomId)
	if err != nil {
		return nil, err
	}
	if !r.IsParticipant(userId) {
		return nil, room.ErrNotParticipant
	}
	return r, nil
}

// ListHostInquiries 房东视角的场地咨询列表，contextId > 0 时按外部实体过滤。
func (u *RoomUsecase) ListHostInquiries(ctx context.Context, hostId, contextId int64) ([]*RoomSummary, error) {
	rooms, err := u.roomRepo.FindPlaceInquiriesByHost(ctx, hostId, contextId)
	if err != nil {
		return nil, err
	}
	return u.buildSummaries(ctx, rooms, hostId), nil
}

// ChangeGroupName 修改群名，仅群成员可操作。
func (u *RoomUsecase) ChangeGroupName(ctx context.Context, roomId, userId int64, name string) (*room.Room, error) {
	r, err := u.roomRepo.FindByID(ctx, roomId)
	if err != nil {
		return nil, err
	}
	if !r.IsParticipant(userId) {
		return nil, room.ErrNotParticipant
	}
	if err := r.ChangeName(name, u.now()); err != nil {
		return nil, err
	}
	if err := u.roomRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// SetNotification 开关房间通知
func (u *RoomUsecase) SetNotification(ctx context.Context, roomId, userId int64, enabled bool) error {
	r, err := u.roomRepo.FindByID(ctx, roomId)
	if err != nil {
		return err
	}
	p := r.FindParticipant(userId)
	if p == nil {
		return room.ErrNotParticipant
	}
	if enabled {
		p.EnableNotification()
	} else {
		p.DisableNotification()
	}
	return u.roomRepo.Save(ctx, r)
}

// buildSummaries 批量组装列表条目：未读数批量查缓存，miss 回源 DB 并回填。
func (u *RoomUsecase) buildSummaries(ctx context.Context, rooms []*room.Room, userId int64) []*RoomSummary {
	roomIds := make([]int64, 0, len(rooms))
	for _, r := range rooms {
		roomIds = append(roomIds, r.Id)
	}
	cached := u.unreadCache.BatchGet(ctx, roomIds, userId)

	summaries := make([]*RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		summary := &RoomSummary{Room: r, LastMessageAt: r.LastMessageAt}

		unread, hit := cached[r.Id]
		if !hit {
			count, err := u.messageRepo.CountUnread(ctx, r.Id, userId)
			if err != nil {
				// 单房间回源失败按 0 展示，不拖垮整页
				logger.Warn(ctx, "未读数回源失败",
					logger.Int64("room_id", r.Id), logger.ErrorField("error", err))
				count = 0
			} else {
				u.unreadCache.Set(ctx, r.Id, userId, count)
			}
			unread = count
		}
		summary.UnreadCount = unread

		if latest, err := u.messageRepo.FindLatestVisibleByRoom(ctx, r.Id, userId); err == nil {
			summary.LastMessagePreview = latest.ContentPreview()
		} else if !errors.Is(err, message.ErrMessageNotFound) {
			logger.Warn(ctx, "最新消息查询失败",
				logger.Int64("room_id", r.Id), logger.ErrorField("error", err))
		}

		summaries = append(summaries, summary)
	}
	return summaries
}

// sendInitialMessage 建房附带的首条消息
func (u *RoomUsecase) sendInitialMessage(ctx context.Context, r *room.Room, senderId int64, content string) error {
	now := u.now()
	msg, err := message.New(u.idGen.NextID(), r.Id, senderId, content, now)
	if err != nil {
		return err
	}
	if err := u.messageRepo.Save(ctx, msg); err != nil {
		return err
	}
	r.UpdateLastMessageAt(&now)
	if err := u.roomRepo.Save(ctx, r); err != nil {
		return err
	}
	for _, otherId := range r.OtherParticipantIds(senderId) {
		u.unreadCache.Increment(ctx, r.Id, otherId)
	}
	u.publisher.Publish(ctx, event.NewMessageSent(r.Id, senderId, msg.Id, msg.ContentPreview(), now))
	return nil
}

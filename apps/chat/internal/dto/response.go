package dto

import (
	"ChatDDing/apps/chat/internal/domain/message"
	"ChatDDing/apps/chat/internal/domain/room"
	"ChatDDing/apps/chat/internal/usecase"
	"ChatDDing/pkg/util"
)

// ParticipantView 成员视图
type ParticipantView struct {
	UserId              int64 `json:"user_id"`
	NotificationEnabled bool  `json:"notification_enabled"`
	LastReadAt          int64 `json:"last_read_at,omitempty"` // unix 毫秒
	JoinedAt            int64 `json:"joined_at"`              // unix 毫秒
}

// RoomView 房间详情视图
type RoomView struct {
	Id            int64              `json:"id"`
	Type          string             `json:"type"`
	Name          string             `json:"name,omitempty"`
	OwnerId       int64              `json:"owner_id,omitempty"`
	Status        string             `json:"status"`
	Participants  []*ParticipantView `json:"participants"`
	Context       *PlaceContextView  `json:"context,omitempty"`
	LastMessageAt int64              `json:"last_message_at,omitempty"` // unix 毫秒
	CreatedAt     int64              `json:"created_at"`                // unix 毫秒
}

// PlaceContextView 场地咨询上下文视图
type PlaceContextView struct {
	ContextType string            `json:"context_type"`
	ContextId   int64             `json:"context_id"`
	ContextName string            `json:"context_name,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// CreateRoomView 创建房间响应
type CreateRoomView struct {
	Room      *RoomView `json:"room"`
	IsNewRoom bool      `json:"is_new_room"`
}

// RoomSummaryView 房间列表条目视图
type RoomSummaryView struct {
	Room               *RoomView `json:"room"`
	UnreadCount        int64     `json:"unread_count"`
	LastMessagePreview string    `json:"last_message_preview,omitempty"`
}

// MessageView 消息视图
type MessageView struct {
	Id        int64  `json:"id"`
	RoomId    int64  `json:"room_id"`
	SenderId  int64  `json:"sender_id"`
	Content   string `json:"content"`
	ReadCount int    `json:"read_count"`
	CreatedAt int64  `json:"created_at"` // unix 毫秒
}

// MessagePageView 消息分页视图
type MessagePageView struct {
	Messages   []*MessageView `json:"messages"`
	HasMore    bool           `json:"has_more"`
	NextCursor int64          `json:"next_cursor,omitempty"`
}

// MarkAsReadView 标记已读响应
type MarkAsReadView struct {
	MarkedCount int64 `json:"marked_count"`
}

// SupportQueueView 客服待接队列视图
type SupportQueueView struct {
	Rooms      []*RoomView `json:"rooms"`
	HasMore    bool        `json:"has_more"`
	NextCursor int64       `json:"next_cursor,omitempty"`
	TotalCount int64       `json:"total_count"`
}

// NewRoomView 房间聚合转视图
func NewRoomView(r *room.Room) *RoomView {
	participants := make([]*ParticipantView, 0, len(r.Participants))
	for _, p := range r.Participants {
		view := &ParticipantView{
			UserId:              p.UserId,
			NotificationEnabled: p.NotificationEnabled,
			JoinedAt:            util.TimeToUnixMilli(p.JoinedAt),
		}
		if p.LastReadAt != nil {
			view.LastReadAt = util.TimeToUnixMilli(*p.LastReadAt)
		}
		participants = append(participants, view)
	}

	view := &RoomView{
		Id:           r.Id,
		Type:         r.Type,
		Name:         r.Name,
		OwnerId:      r.OwnerId,
		Status:       r.Status,
		Participants: participants,
		CreatedAt:    util.TimeToUnixMilli(r.CreatedAt),
	}
	if r.LastMessageAt != nil {
		view.LastMessageAt = util.TimeToUnixMilli(*r.LastMessageAt)
	}
	if r.Context != nil {
		view.Context = &PlaceContextView{
			ContextType: r.Context.ContextType,
			ContextId:   r.Context.ContextId,
			ContextName: r.Context.ContextName,
			Metadata:    r.Context.Metadata,
		}
	}
	return view
}

// NewRoomViews 批量转换
func NewRoomViews(rooms []*room.Room) []*RoomView {
	views := make([]*RoomView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, NewRoomView(r))
	}
	return views
}

// NewMessageView 消息聚合转视图
func NewMessageView(m *message.Message) *MessageView {
	return &MessageView{
		Id:        m.Id,
		RoomId:    m.RoomId,
		SenderId:  m.SenderId,
		Content:   m.Content,
		ReadCount: m.ReadCount(),
		CreatedAt: util.TimeToUnixMilli(m.CreatedAt),
	}
}

// NewMessageViews 批量转换
func NewMessageViews(messages []*message.Message) []*MessageView {
	views := make([]*MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, NewMessageView(m))
	}
	return views
}

// NewRoomSummaryViews 房间列表条目批量转换
func NewRoomSummaryViews(summaries []*usecase.RoomSummary) []*RoomSummaryView {
	views := make([]*RoomSummaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, &RoomSummaryView{
			Room:               NewRoomView(s.Room),
			UnreadCount:        s.UnreadCount,
			LastMessagePreview: s.LastMessagePreview,
		})
	}
	return views
}

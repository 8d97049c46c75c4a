package event

import "time"

// 事件类型
const (
	TypeDmCreated             = "DM_CREATED"
	TypeGroupCreated          = "GROUP_CREATED"
	TypeInquiryCreated        = "INQUIRY_CREATED"
	TypeSupportRequestCreated = "SUPPORT_REQUEST_CREATED"
	TypeSupportAgentAssigned  = "SUPPORT_AGENT_ASSIGNED"
	TypeSupportChatClosed     = "SUPPORT_CHAT_CLOSED"
	TypeMessageSent           = "MESSAGE_SENT"
	TypeMessageRead           = "MESSAGE_READ"
	TypeMessageDeleted        = "MESSAGE_DELETED"
)

// Kafka 主题
const (
	TopicMessageSent      = "chat-message-sent"
	TopicMessageRead      = "chat-message-read"
	TopicSupportRequested = "support-requested"
	TopicSupportAssigned  = "support-agent-assigned"
	TopicSupportClosed    = "support-closed"
	TopicDefault          = "chat-events"
)

// topicByType 事件类型到主题的映射，未列出的类型落默认主题。
var topicByType = map[string]string{
	TypeMessageSent:           TopicMessageSent,
	TypeMessageRead:           TopicMessageRead,
	TypeSupportRequestCreated: TopicSupportRequested,
	TypeSupportAgentAssigned:  TopicSupportAssigned,
	TypeSupportChatClosed:     TopicSupportClosed,
}

// TopicFor 返回事件类型对应的主题
func TopicFor(eventType string) string {
	if topic, ok := topicByType[eventType]; ok {
		return topic
	}
	return TopicDefault
}

// Event 聊天领域事件。
// 统一结构，按 Type 区分载荷字段，未用字段零值省略。
type Event struct {
	Type         string `json:"type"`
	RoomId       int64  `json:"room_id"`
	UserId       int64  `json:"user_id,omitempty"`
	TargetUserId int64  `json:"target_user_id,omitempty"`
	MessageId    int64  `json:"message_id,omitempty"`
	Preview      string `json:"preview,omitempty"`
	ReadAt       int64  `json:"read_at,omitempty"` // unix 毫秒
	ReadCount    int64  `json:"read_count,omitempty"`
	HardDeleted  bool   `json:"hard_deleted,omitempty"`
	OccurredAt   int64  `json:"occurred_at"` // unix 毫秒
}

// NewDmCreated 私聊创建事件
func NewDmCreated(roomId, creatorId, peerId int64, now time.Time) Event {
	return Event{
		Type:         TypeDmCreated,
		RoomId:       roomId,
		UserId:       creatorId,
		TargetUserId: peerId,
		OccurredAt:   now.UnixMilli(),
	}
}

// NewGroupCreated 群聊创建事件
func NewGroupCreated(roomId, ownerId int64, now time.Time) Event {
	return Event{
		Type:       TypeGroupCreated,
		RoomId:     roomId,
		UserId:     ownerId,
		OccurredAt: now.UnixMilli(),
	}
}

// NewInquiryCreated 场地咨询创建事件
func NewInquiryCreated(roomId, guestId, hostId int64, now time.Time) Event {
	return Event{
		Type:         TypeInquiryCreated,
		RoomId:       roomId,
		UserId:       guestId,
		TargetUserId: hostId,
		OccurredAt:   now.UnixMilli(),
	}
}

// NewSupportRequestCreated 客服请求事件
func NewSupportRequestCreated(roomId, userId int64, now time.Time) Event {
	return Event{
		Type:       TypeSupportRequestCreated,
		RoomId:     roomId,
		UserId:     userId,
		OccurredAt: now.UnixMilli(),
	}
}

// NewSupportAgentAssigned 客服指派事件
func NewSupportAgentAssigned(roomId, agentId int64, now time.Time) Event {
	return Event{
		Type:       TypeSupportAgentAssigned,
		RoomId:     roomId,
		UserId:     agentId,
		OccurredAt: now.UnixMilli(),
	}
}

// NewSupportChatClosed 客服会话关闭事件
func NewSupportChatClosed(roomId, userId int64, now time.Time) Event {
	return Event{
		Type:       TypeSupportChatClosed,
		RoomId:     roomId,
		UserId:     userId,
		OccurredAt: now.UnixMilli(),
	}
}

// NewMessageSent 消息发送事件，preview 为截断后的内容预览。
func NewMessageSent(roomId, senderId, messageId int64, preview string, now time.Time) Event {
	return Event{
		Type:       TypeMessageSent,
		RoomId:     roomId,
		UserId:     senderId,
		MessageId:  messageId,
		Preview:    preview,
		OccurredAt: now.UnixMilli(),
	}
}

// NewMessageRead 已读事件，消费侧按 (roomId, userId, readAt) 批量落库。
func NewMessageRead(roomId, userId int64, readAt time.Time) Event {
	return Event{
		Type:       TypeMessageRead,
		RoomId:     roomId,
		UserId:     userId,
		ReadAt:     readAt.UnixMilli(),
		OccurredAt: readAt.UnixMilli(),
	}
}

// NewMessageDeleted 消息删除事件
func NewMessageDeleted(roomId, userId, messageId int64, hardDeleted bool, now time.Time) Event {
	return Event{
		Type:        TypeMessageDeleted,
		RoomId:      roomId,
		UserId:      userId,
		MessageId:   messageId,
		HardDeleted: hardDeleted,
		OccurredAt:  now.UnixMilli(),
	}
}

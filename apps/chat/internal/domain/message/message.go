package message

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentLength 消息内容最大字符数
const MaxContentLength = 5000

// PreviewLength 列表页预览截断字符数
const PreviewLength = 50

// Message 消息聚合根。
// ReadBy 记录每个用户的首次已读时间（毫秒），首读不可覆盖。
// DeletedBy 记录软删除用户集合，全员删除后物理清除。
type Message struct {
	Id        int64
	RoomId    int64
	SenderId  int64
	Content   string
	ReadBy    map[int64]time.Time
	DeletedBy map[int64]bool
	CreatedAt time.Time
}

// New 创建消息，发送者自动置为已读。
func New(id, roomId, senderId int64, content string, now time.Time) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentEmpty
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}
	return &Message{
		Id:        id,
		RoomId:    roomId,
		SenderId:  senderId,
		Content:   content,
		ReadBy:    map[int64]time.Time{senderId: now},
		DeletedBy: map[int64]bool{},
		CreatedAt: now,
	}, nil
}

// MarkAsRead 以当前时间标记已读
func (m *Message) MarkAsRead(userId int64) bool {
	return m.MarkAsReadAt(userId, time.Now())
}

// MarkAsReadAt 标记已读，首次已读时间保留，重复标记不覆盖。
// 返回本次是否为首次已读。
func (m *Message) MarkAsReadAt(userId int64, readAt time.Time) bool {
	if m.ReadBy == nil {
		m.ReadBy = map[int64]time.Time{}
	}
	if _, ok := m.ReadBy[userId]; ok {
		return false
	}
	m.ReadBy[userId] = readAt
	return true
}

// IsReadBy 用户是否已读
func (m *Message) IsReadBy(userId int64) bool {
	_, ok := m.ReadBy[userId]
	return ok
}

// ReadCount 已读人数（含发送者）
func (m *Message) ReadCount() int {
	return len(m.ReadBy)
}

// DeleteFor 为用户软删除，幂等。
func (m *Message) DeleteFor(userId int64) {
	if m.DeletedBy == nil {
		m.DeletedBy = map[int64]bool{}
	}
	m.DeletedBy[userId] = true
}

// IsVisibleTo 消息对用户是否可见
func (m *Message) IsVisibleTo(userId int64) bool {
	return !m.DeletedBy[userId]
}

// ShouldHardDelete 全体成员都已删除时物理删除
func (m *Message) ShouldHardDelete(participantCount int) bool {
	return participantCount > 0 && len(m.DeletedBy) >= participantCount
}

// ContentPreview 返回截断到 PreviewLength 个字符的预览
func (m *Message) ContentPreview() string {
	runes := []rune(m.Content)
	if len(runes) <= PreviewLength {
		return m.Content
	}
	return string(runes[:PreviewLength]) + "..."
}

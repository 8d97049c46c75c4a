package model

import "time"

// ChatRoomTableName 聊天室表名
const ChatRoomTableName = "chat_room"

// ChatRoom 聊天室持久化文档。
// participants 以 JSON 数组内嵌（参与者上限 100，文档化存储避免 join）。
// dm_key / inquiry_key 为去重键，靠唯一索引兜底并发重复创建。
type ChatRoom struct {
	Id               int64      `gorm:"column:id;primaryKey"`
	Type             string     `gorm:"column:type;type:varchar(20);not null;index:idx_type_status_count,priority:1"`
	Name             string     `gorm:"column:name;type:varchar(100);not null;default:''"`
	OwnerId          int64      `gorm:"column:owner_id;not null;default:0"`
	Status           string     `gorm:"column:status;type:varchar(10);not null;index:idx_type_status_count,priority:2"`
	Participants     string     `gorm:"column:participants;type:json;not null"`
	ParticipantCount int        `gorm:"column:participant_count;not null;index:idx_type_status_count,priority:3"`
	DmKey            *string    `gorm:"column:dm_key;type:varchar(64);uniqueIndex:uidx_dm_key"`
	InquiryKey       *string    `gorm:"column:inquiry_key;type:varchar(64);uniqueIndex:uidx_inquiry_key"`
	Context          *string    `gorm:"column:context;type:json"`
	LastMessageAt    *time.Time `gorm:"column:last_message_at;type:datetime(3);index:idx_last_message_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;type:datetime(3);not null"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;type:datetime(3);not null"`
}

// TableName 指定表名
func (ChatRoom) TableName() string {
	return ChatRoomTableName
}

package model

import "time"

// MessageTableName 消息表名
const MessageTableName = "message"

// Message 消息持久化文档。
// read_by 为 JSON 对象 {"<userId>": <unix 毫秒>}，deleted_by 为 JSON 数组 [<userId>...]。
// id 采用雪花算法，同一房间内 id 序与时间序一致，可做游标。
type Message struct {
	Id        int64     `gorm:"column:id;primaryKey"`
	RoomId    int64     `gorm:"column:room_id;not null;index:idx_room_id_id,priority:1;index:idx_room_created,priority:1"`
	SenderId  int64     `gorm:"column:sender_id;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	ReadBy    string    `gorm:"column:read_by;type:json;not null"`
	DeletedBy string    `gorm:"column:deleted_by;type:json;not null"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime(3);not null;index:idx_room_created,priority:2"`
}

// TableName 指定表名
func (Message) TableName() string {
	return MessageTableName
}

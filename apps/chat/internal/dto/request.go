package dto

// CreateDmRequest 创建私聊
type CreateDmRequest struct {
	PeerId         int64  `json:"peer_id" binding:"required,gt=0"`
	InitialMessage string `json:"initial_message"`
}

// CreateGroupRequest 创建群聊
type CreateGroupRequest struct {
	Name      string  `json:"name" binding:"required"`
	MemberIds []int64 `json:"member_ids" binding:"required,min=1,dive,gt=0"`
}

// CreatePlaceInquiryRequest 创建场地咨询
type CreatePlaceInquiryRequest struct {
	HostId         int64             `json:"host_id" binding:"required,gt=0"`
	ContextType    string            `json:"context_type" binding:"required"`
	ContextId      int64             `json:"context_id" binding:"required,gt=0"`
	ContextName    string            `json:"context_name"`
	Metadata       map[string]string `json:"metadata"`
	InitialMessage string            `json:"initial_message"`
}

// CreateSupportRequest 发起客服请求
type CreateSupportRequest struct {
	InitialMessage string `json:"initial_message"`
}

// SendMessageRequest 发送消息
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// MarkAsReadRequest 标记已读，anchor_message_id 为 0 时兜底扫描最新消息。
type MarkAsReadRequest struct {
	AnchorMessageId int64 `json:"anchor_message_id"`
}

// ChangeGroupNameRequest 修改群名
type ChangeGroupNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// SetNotificationRequest 房间通知开关
type SetNotificationRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

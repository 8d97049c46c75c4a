package consts

// 通用错误码
const (
	// 成功
	CodeSuccess = 0
)

// 客户端错误 (1xxxx)
const (
	// 参数验证失败
	CodeParamError = 10001
	// 请求体格式错误
	CodeBodyError = 10002
	// 资源不存在
	CodeResourceNotFound = 10003
	// 请求方法不允许
	CodeMethodNotAllowed = 10004
	// 请求过于频繁
	CodeTooManyRequests = 10005
)

// 认证错误 (2xxxx)
const (
	// 未认证
	CodeUnauthorized = 20001
	// Token 无效
	CodeInvalidToken = 20002
	// Token 已过期
	CodeTokenExpired = 20003
	// 权限不足
	CodePermissionDeny = 20004
)

// 聊天模块错误 (13xxx)
const (
	// 聊天室不存在
	CodeRoomNotFound = 13001
	// 非聊天室参与者
	CodeNotParticipant = 13002
	// 消息不存在
	CodeMessageNotFound = 13003
	// 消息内容为空
	CodeMessageContentEmpty = 13004
	// 消息长度超限 (最大5000字符)
	CodeMessageContentTooLong = 13005
	// 群聊人数超限 (最大100人)
	CodeGroupCapacityExceeded = 13006
	// 聊天室已关闭
	CodeRoomClosed = 13007
	// 非客服聊天室
	CodeNotSupportRoom = 13008
	// 客服已被指派
	CodeAgentAlreadyAssigned = 13009
	// 不能与自己建立私聊
	CodeCannotDmSelf = 13010
	// 群名称无效 (为空或超过100字符)
	CodeGroupNameInvalid = 13011
	// 非群聊聊天室
	CodeNotGroupRoom = 13012
	// 咨询上下文无效 (context_id 必须为正)
	CodeInvalidContext = 13013
)

// 服务端错误 (3xxxx)
const (
	// 服务器内部错误
	CodeInternalError = 30001
)

// codeMessages 错误码到用户可见消息的映射
var codeMessages = map[int]string{
	CodeSuccess:               "成功",
	CodeParamError:            "参数验证失败",
	CodeBodyError:             "请求体格式错误",
	CodeResourceNotFound:      "资源不存在",
	CodeMethodNotAllowed:      "请求方法不允许",
	CodeTooManyRequests:       "请求过于频繁",
	CodeUnauthorized:          "未认证",
	CodeInvalidToken:          "Token 无效",
	CodeTokenExpired:          "Token 已过期",
	CodePermissionDeny:        "权限不足",
	CodeRoomNotFound:          "聊天室不存在",
	CodeNotParticipant:        "您不是该聊天室的参与者",
	CodeMessageNotFound:       "消息不存在",
	CodeMessageContentEmpty:   "消息内容不能为空",
	CodeMessageContentTooLong: "消息长度超限（最大5000字符）",
	CodeGroupCapacityExceeded: "群聊人数超限（最大100人）",
	CodeRoomClosed:            "聊天室已关闭",
	CodeNotSupportRoom:        "不是客服聊天室",
	CodeAgentAlreadyAssigned:  "客服已被指派",
	CodeCannotDmSelf:          "不能与自己建立私聊",
	CodeGroupNameInvalid:      "群名称无效",
	CodeNotGroupRoom:          "不是群聊聊天室",
	CodeInvalidContext:        "咨询上下文无效",
	CodeInternalError:         "服务器内部错误",
}

// GetMessage 根据错误码获取错误消息
func GetMessage(code int) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return "未知错误"
}

// IsNonServerError 判断是否为业务错误（非 3xxxx 系统错误）
func IsNonServerError(code int) bool {
	return code < 30000
}

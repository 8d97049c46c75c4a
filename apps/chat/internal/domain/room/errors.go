package room

import "errors"

// 房间领域错误
var (
	ErrRoomNotFound         = errors.New("room: 房间不存在")
	ErrNotParticipant       = errors.New("room: 用户不是房间成员")
	ErrRoomClosed           = errors.New("room: 房间已关闭")
	ErrCapacityExceeded     = errors.New("room: 超出房间人数上限")
	ErrNotSupportRoom       = errors.New("room: 不是客服房间")
	ErrAgentAlreadyAssigned = errors.New("room: 客服已被指派")
	ErrNotGroupRoom         = errors.New("room: 不是群聊房间")
	ErrInvalidName          = errors.New("room: 房间名不合法")
	ErrInvalidContext       = errors.New("room: 业务上下文不合法")
	ErrCannotChatSelf       = errors.New("room: 不能与自己建立私聊")
	ErrDuplicateRoom        = errors.New("room: 去重键冲突，房间已存在")
)

package handler

import (
	"errors"

	"ChatDDing/apps/chat/internal/domain/message"
	"ChatDDing/apps/chat/internal/domain/room"
	"ChatDDing/consts"
)

// errToCode 领域错误到业务码的映射，未识别的错误按内部错误处理。
func errToCode(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return consts.CodeRoomNotFound
	case errors.Is(err, room.ErrNotParticipant):
		return consts.CodeNotParticipant
	case errors.Is(err, room.ErrRoomClosed):
		return consts.CodeRoomClosed
	case errors.Is(err, room.ErrCapacityExceeded):
		return consts.CodeGroupCapacityExceeded
	case errors.Is(err, room.ErrNotSupportRoom):
		return consts.CodeNotSupportRoom
	case errors.Is(err, room.ErrAgentAlreadyAssigned):
		return consts.CodeAgentAlreadyAssigned
	case errors.Is(err, room.ErrNotGroupRoom):
		return consts.CodeNotGroupRoom
	case errors.Is(err, room.ErrInvalidName):
		return consts.CodeGroupNameInvalid
	case errors.Is(err, room.ErrInvalidContext):
		return consts.CodeInvalidContext
	case errors.Is(err, room.ErrCannotChatSelf):
		return consts.CodeCannotDmSelf
	case errors.Is(err, message.ErrMessageNotFound):
		return consts.CodeMessageNotFound
	case errors.Is(err, message.ErrContentEmpty):
		return consts.CodeMessageContentEmpty
	case errors.Is(err, message.ErrContentTooLong):
		return consts.CodeMessageContentTooLong
	default:
		return consts.CodeInternalError
	}
}

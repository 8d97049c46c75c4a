package message

import "errors"

// 消息领域错误
var (
	ErrMessageNotFound = errors.New("message: 消息不存在")
	ErrContentEmpty    = errors.New("message: 消息内容为空")
	ErrContentTooLong  = errors.New("message: 消息内容超长")
)

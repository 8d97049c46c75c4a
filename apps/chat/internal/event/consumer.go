package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"ChatDDing/apps/chat/internal/domain/message"
	"ChatDDing/pkg/logger"
)

// NewMessageReadHandler 返回 chat-message-read 主题的消费处理函数。
// 把异步已读事件批量落库，幂等（已读过的消息不会二次更新）。
func NewMessageReadHandler(messageRepo message.Repository) func(ctx context.Context, msg kafkago.Message) error {
	return func(ctx context.Context, msg kafkago.Message) error {
		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			// 脏消息无法重试，记日志后吞掉
			logger.Warn(ctx, "已读事件解析失败，丢弃",
				logger.String("topic", msg.Topic), logger.ErrorField("error", err))
			return nil
		}
		if evt.Type != TypeMessageRead || evt.RoomId <= 0 || evt.UserId <= 0 {
			logger.Warn(ctx, "已读事件字段非法，丢弃",
				logger.String("type", evt.Type), logger.Int64("room_id", evt.RoomId))
			return nil
		}

		readAt := time.UnixMilli(evt.ReadAt)
		if evt.ReadAt <= 0 {
			readAt = time.Now()
		}

		marked, err := messageRepo.BulkMarkRead(ctx, evt.RoomId, evt.UserId, readAt)
		if err != nil {
			return fmt.Errorf("event: 批量已读落库失败: %w", err)
		}
		logger.Info(ctx, "已读事件落库完成",
			logger.Int64("room_id", evt.RoomId),
			logger.Int64("reader_id", evt.UserId),
			logger.Int64("marked", marked))
		return nil
	}
}

func logPublishFailure(ctx context.Context, evt Event, err error) {
	logger.Error(ctx, "事件发布失败",
		logger.String("type", evt.Type),
		logger.Int64("room_id", evt.RoomId),
		logger.ErrorField("error", err))
}

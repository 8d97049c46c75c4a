package event

import (
	"context"
	"encoding/json"
	"strconv"
)

// Publisher 事件发布接口。
// 发布失败只记日志不阻断主流程，下游依赖至少一次语义自行幂等。
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// Sender 底层消息发送器，生产实现为 pkg/kafka.Producer。
type Sender interface {
	Send(ctx context.Context, topic string, key, value []byte) error
}

type kafkaPublisher struct {
	sender Sender
}

// NewKafkaPublisher 创建 Kafka 事件发布器
func NewKafkaPublisher(sender Sender) Publisher {
	return &kafkaPublisher{sender: sender}
}

// Publish 以 roomId 为分区键发布事件，保证同房间事件有序。
func (p *kafkaPublisher) Publish(ctx context.Context, evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		logPublishFailure(ctx, evt, err)
		return
	}
	key := []byte(strconv.FormatInt(evt.RoomId, 10))
	if err := p.sender.Send(ctx, TopicFor(evt.Type), key, payload); err != nil {
		logPublishFailure(ctx, evt, err)
	}
}

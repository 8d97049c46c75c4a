package kafka

import (
	"context"
	"time"

	"ChatDDing/config"

	"github.com/segmentio/kafka-go"
)

// ==================== Producer 定义 ====================

// Producer Kafka 生产者（通用）
// 不绑定单一 topic，发送时指定，供多 topic 事件发布复用同一连接池。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建 Kafka 生产者
func NewProducer(brokers []string, cfg config.KafkaProducerConfig) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{}, // 按 key 哈希，同 key 落同分区保证有序
			BatchSize:    cfg.BatchSize,
			BatchTimeout: cfg.BatchTimeout,
			MaxAttempts:  cfg.MaxAttempts,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Send 发送消息到指定 topic
// key 用于分区路由，可为 nil（随机分区）。
func (p *Producer) Send(ctx context.Context, topic string, key, value []byte) error {
	return p.SendMessage(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

// SendMessage 发送完整构造的消息，保留 headers（消费侧重投场景）。
func (p *Producer) SendMessage(ctx context.Context, msg kafka.Message) error {
	if msg.Time.IsZero() {
		msg.Time = time.Now()
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close 关闭生产者
func (p *Producer) Close() error {
	return p.writer.Close()
}

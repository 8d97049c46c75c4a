package kafka

import (
	"context"
	"strconv"
	"time"

	"ChatDDing/config"
	"ChatDDing/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// ==================== Consumer 定义 ====================

// Handler 处理一条 Kafka 消息。
// 返回错误触发带上限的重投（见 process），不阻塞位点提交——
// at-least-once 语义下处理逻辑必须自身幂等。
type Handler func(ctx context.Context, msg kafka.Message) error

// Requeuer 把处理失败的消息重投回原 topic，Producer 实现。
type Requeuer interface {
	SendMessage(ctx context.Context, msg kafka.Message) error
}

// retryCountHeader 重投消息携带的重试计数 header
const retryCountHeader = "retry_count"

// Consumer 通用消费者：单 topic + 消费组，阻塞式拉取循环。
// 位点总是前移；处理失败的消息通过 requeue 重投补偿，超过
// maxRetries 后记日志放弃。
type Consumer struct {
	reader     *kafka.Reader
	handler    Handler
	requeue    Requeuer
	maxRetries int
}

// NewConsumer 创建消费者。requeue 可为 nil（失败只记日志，不重投）。
func NewConsumer(brokers []string, topic string, cfg config.KafkaConsumerConfig, requeue Requeuer, handler Handler) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			Topic:             topic,
			GroupID:           cfg.GroupID,
			MinBytes:          cfg.MinBytes,
			MaxBytes:          cfg.MaxBytes,
			MaxWait:           cfg.MaxWait,
			CommitInterval:    cfg.CommitInterval,
			StartOffset:       cfg.StartOffset,
			HeartbeatInterval: cfg.HeartbeatInterval,
			SessionTimeout:    cfg.SessionTimeout,
			RebalanceTimeout:  cfg.RebalanceTimeout,
		}),
		handler:    handler,
		requeue:    requeue,
		maxRetries: cfg.MaxRetries,
	}
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Start 启动消费循环，阻塞运行直到 ctx 取消
func (c *Consumer) Start(ctx context.Context) error {
	logger.Info(ctx, "Kafka 消费者启动",
		logger.String("topic", c.reader.Config().Topic),
		logger.String("group_id", c.reader.Config().GroupID),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Kafka 消费者停止", logger.String("topic", c.reader.Config().Topic))
			return ctx.Err()
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error(ctx, "读取 Kafka 消息失败", logger.ErrorField("error", err))
				time.Sleep(time.Second) // 避免错误风暴
				continue
			}

			c.process(ctx, msg)

			// 位点总是前移，失败消息已由 process 重投
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				logger.Error(ctx, "提交 Kafka 位点失败", logger.ErrorField("error", err))
			}
		}
	}
}

// process 执行 handler；失败时带重试计数重投回原 topic，
// 超过 maxRetries 记日志放弃。
func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	err := c.handler(ctx, msg)
	if err == nil {
		return
	}

	retries := retryCount(msg)
	logger.Error(ctx, "处理 Kafka 消息失败",
		logger.ErrorField("error", err),
		logger.String("topic", msg.Topic),
		logger.Int64("offset", msg.Offset),
		logger.Int("retry_count", retries),
	)

	if c.requeue == nil {
		return
	}
	if retries >= c.maxRetries {
		logger.Error(ctx, "Kafka 消息达到最大重试次数，放弃",
			logger.String("topic", msg.Topic),
			logger.Int("retry_count", retries),
			logger.Int("max_retries", c.maxRetries),
		)
		return
	}

	next := kafka.Message{
		Topic: msg.Topic,
		Key:   msg.Key,
		Value: msg.Value,
		Headers: []kafka.Header{
			{Key: retryCountHeader, Value: []byte(strconv.Itoa(retries + 1))},
		},
	}
	if requeueErr := c.requeue.SendMessage(ctx, next); requeueErr != nil {
		logger.Error(ctx, "重投 Kafka 消息失败",
			logger.String("topic", msg.Topic),
			logger.ErrorField("error", requeueErr),
		)
	}
}

// retryCount 读取消息的重试计数，header 缺失或非法按 0。
func retryCount(msg kafka.Message) int {
	for _, h := range msg.Headers {
		if h.Key == retryCountHeader {
			if n, err := strconv.Atoi(string(h.Value)); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ChatDDing/apps/chat/internal/cache"
	"ChatDDing/apps/chat/internal/domain/message"
	"ChatDDing/apps/chat/internal/domain/room"
	"ChatDDing/apps/chat/internal/event"
	"ChatDDing/apps/chat/internal/handler"
	"ChatDDing/apps/chat/internal/router"
	"ChatDDing/apps/chat/internal/usecase"
	"ChatDDing/config"
	"ChatDDing/pkg/id"
	"ChatDDing/pkg/kafka"
	"ChatDDing/pkg/logger"
	"ChatDDing/pkg/mysql"
	"ChatDDing/pkg/redis"
)

func main() {
	ctx := context.Background()

	// 1. 初始化日志
	logCfg := config.DefaultLoggerConfig()
	zapLogger, err := logger.Build(logCfg)
	if err != nil {
		panic(err)
	}
	logger.ReplaceGlobal(zapLogger)
	defer func() { _ = zapLogger.Sync() }()

	// 2. 初始化 MySQL（必须）
	mysqlCfg := config.DefaultMySQLConfig()
	mysql.Normalize(&mysqlCfg)
	db, err := mysql.Build(mysqlCfg)
	if err != nil {
		logger.Error(ctx, "MySQL 初始化失败", logger.ErrorField("error", err))
		os.Exit(1)
	}
	mysql.ReplaceGlobal(db)

	// 3. 初始化 Redis（可降级：失败时未读数走 DB 回源）
	var unreadCache cache.UnreadCountCache
	redisCfg := config.DefaultRedisConfig()
	redisClient, err := redis.Build(redisCfg)
	if err != nil {
		logger.Warn(ctx, "Redis 初始化失败，未读数缓存降级", logger.ErrorField("error", err))
		unreadCache = cache.NewNoopUnreadCountCache()
	} else {
		redis.ReplaceGlobal(redisClient)
		unreadCache = cache.NewRedisUnreadCountCache(redisClient)
	}

	// 4. 初始化 Kafka 生产者
	kafkaCfg := config.DefaultKafkaConfig()
	producer := kafka.NewProducer(kafkaCfg.Brokers, kafkaCfg.ProducerConfig)
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error(ctx, "关闭 Kafka Producer 失败", logger.ErrorField("error", err))
		}
	}()

	// 5. 初始化 ID 生成器
	snowflakeCfg := config.DefaultSnowflakeConfig()
	idGen, err := id.NewSnowflakeGenerator(snowflakeCfg.NodeID)
	if err != nil {
		logger.Error(ctx, "ID 生成器初始化失败", logger.ErrorField("error", err))
		os.Exit(1)
	}

	// 6. 组装仓储 / 事件 / 用例
	roomRepo := room.NewGormRepository(db)
	messageRepo := message.NewGormRepository(db)
	publisher := event.NewKafkaPublisher(producer)

	roomUsecase := usecase.NewRoomUsecase(roomRepo, messageRepo, unreadCache, publisher, idGen)
	messageUsecase := usecase.NewMessageUsecase(roomRepo, messageRepo, unreadCache, publisher, idGen)
	supportUsecase := usecase.NewSupportUsecase(roomRepo, messageRepo, unreadCache, publisher, idGen)

	// 7. 启动已读事件消费者
	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	defer cancelConsumer()
	consumer := kafka.NewConsumer(
		kafkaCfg.Brokers,
		event.TopicMessageRead,
		kafkaCfg.ConsumerConfig,
		producer, // 落库失败的事件带上限重投
		event.NewMessageReadHandler(messageRepo),
	)
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(ctx, "Kafka 消费者运行错误", logger.ErrorField("error", err))
		}
	}()
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Error(ctx, "关闭 Kafka 消费者失败", logger.ErrorField("error", err))
		}
	}()

	// 8. 组装 HTTP 路由
	serverCfg := config.DefaultServerConfig()
	engine := router.Setup(
		serverCfg,
		handler.NewRoomHandler(roomUsecase),
		handler.NewMessageHandler(messageUsecase),
		handler.NewSupportHandler(supportUsecase),
	)

	server := &http.Server{
		Addr:         serverCfg.Addr,
		Handler:      engine,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
	}

	// 9. 启动服务并等待退出信号
	go func() {
		logger.Info(ctx, "HTTP 服务启动", logger.String("addr", serverCfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "HTTP 服务启动失败", logger.ErrorField("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "收到退出信号，开始优雅关闭")

	// 10. 优雅关闭：先停 HTTP，再停消费者与连接
	shutdownCtx, cancel := context.WithTimeout(ctx, serverCfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP 服务强制关闭", logger.ErrorField("error", err))
	}
	cancelConsumer()

	logger.Info(ctx, "服务已退出")
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ChatDDing/apps/chat/internal/handler"
	"ChatDDing/apps/chat/internal/middleware"
	"ChatDDing/config"
)

// Setup 组装路由与中间件
func Setup(
	cfg config.ServerConfig,
	roomHandler *handler.RoomHandler,
	messageHandler *handler.MessageHandler,
	supportHandler *handler.SupportHandler,
) *gin.Engine {
	engine := gin.New()

	engine.Use(
		middleware.Recover(),
		middleware.Cors(),
		middleware.Trace(),
		middleware.ClientIP(),
		middleware.GinLogger(),
		middleware.Metrics(),
	)

	// 探活与指标不走认证
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTSecret), rateLimiter.Handler())
	{
		rooms := v1.Group("/rooms")
		{
			rooms.GET("", roomHandler.ListRooms)
			rooms.POST("/dm", roomHandler.CreateDm)
			rooms.POST("/group", roomHandler.CreateGroup)
			rooms.POST("/place-inquiry", roomHandler.CreatePlaceInquiry)
			rooms.GET("/host-inquiries", roomHandler.ListHostInquiries)
			rooms.GET("/:roomId", roomHandler.GetRoomDetail)
			rooms.PATCH("/:roomId/name", roomHandler.ChangeGroupName)
			rooms.PATCH("/:roomId/notification", roomHandler.SetNotification)

			rooms.POST("/:roomId/messages", messageHandler.Send)
			rooms.GET("/:roomId/messages", messageHandler.GetMessages)
			rooms.POST("/:roomId/read", messageHandler.MarkAsRead)
		}

		v1.DELETE("/messages/:messageId", messageHandler.Delete)

		support := v1.Group("/support")
		{
			support.POST("", supportHandler.Create)
			support.GET("/queue", supportHandler.GetQueue)
			support.POST("/:roomId/assign", supportHandler.Assign)
			support.POST("/:roomId/close", supportHandler.Close)
		}
	}

	return engine
}

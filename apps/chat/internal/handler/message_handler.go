package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ChatDDing/apps/chat/internal/dto"
	"ChatDDing/apps/chat/internal/usecase"
	"ChatDDing/consts"
	"ChatDDing/pkg/logger"
	"ChatDDing/pkg/result"
	"ChatDDing/pkg/util"
)

// MessageHandler 消息接口
type MessageHandler struct {
	messageUsecase *usecase.MessageUsecase
}

// NewMessageHandler 创建消息接口处理器
func NewMessageHandler(messageUsecase *usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{messageUsecase: messageUsecase}
}

// Send 发送消息
// POST /api/v1/rooms/:roomId/messages
func (h *MessageHandler) Send(c *gin.Context) {
	roomId, ok := parseIdParam(c, "roomId")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeBodyError)
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	msg, err := h.messageUsecase.Send(ctx, roomId, userId, req.Content)
	if err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "发送消息失败",
				logger.Int64("room_id", roomId),
				logger.ErrorField("error", err),
			)
		}
		result.Fail(c, nil, code)
		return
	}
	result.Success(c, dto.NewMessageView(msg))
}

// GetMessages 历史消息分页（新到旧）
// GET /api/v1/rooms/:roomId/messages?cursor=&limit=
func (h *MessageHandler) GetMessages(c *gin.Context) {
	roomId, ok := parseIdParam(c, "roomId")
	if !ok {
		return
	}
	cursor, _ := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	page, err := h.messageUsecase.GetMessages(ctx, roomId, userId, cursor, limit)
	if err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "拉取消息失败",
				logger.Int64("room_id", roomId),
				logger.ErrorField("error", err),
			)
		}
		result.Fail(c, nil, code)
		return
	}

	result.Success(c, &dto.MessagePageView{
		Messages:   dto.NewMessageViews(page.Messages),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	})
}

// MarkAsRead 标记已读
// POST /api/v1/rooms/:roomId/read
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	roomId, ok := parseIdParam(c, "roomId")
	if !ok {
		return
	}
	var req dto.MarkAsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeBodyError)
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	marked, err := h.messageUsecase.MarkAsRead(ctx, roomId, userId, req.AnchorMessageId)
	if err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "标记已读失败",
				logger.Int64("room_id", roomId),
				logger.ErrorField("error", err),
			)
		}
		result.Fail(c, nil, code)
		return
	}
	result.Success(c, &dto.MarkAsReadView{MarkedCount: marked})
}

// Delete 删除消息
// DELETE /api/v1/messages/:messageId
func (h *MessageHandler) Delete(c *gin.Context) {
	messageId, ok := parseIdParam(c, "messageId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	if err := h.messageUsecase.Delete(ctx, messageId, userId); err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "删除消息失败",
				logger.Int64("message_id", messageId),
				logger.ErrorField("error", err),
			)
		}
		result.Fail(c, nil, code)
		return
	}
	result.Success(c, nil)
}

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

// SupportHandler 客服会话接口
type SupportHandler struct {
	supportUsecase *usecase.SupportUsecase
}

// NewSupportHandler 创建客服接口处理器
func NewSupportHandler(supportUsecase *usecase.SupportUsecase) *SupportHandler {
	return &SupportHandler{supportUsecase: supportUsecase}
}

// Create 发起客服请求
// POST /api/v1/support
func (h *SupportHandler) Create(c *gin.Context) {
	var req dto.CreateSupportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeBodyError)
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	r, err := h.supportUsecase.CreateSupport(ctx, userId, req.InitialMessage)
	if err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "创建客服会话失败", logger.ErrorField("error", err))
		}
		result.Fail(c, nil, code)
		return
	}
	result.Success(c, dto.NewRoomView(r))
}

// GetQueue 客服待接队列（FIFO）
// GET /api/v1/support/queue?cursor=&limit=
func (h *SupportHandler) GetQueue(c *gin.Context) {
	cursor, _ := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	ctx := c.Request.Context()
	page, err := h.supportUsecase.GetQueue(ctx, cursor, limit)
	if err != nil {
		logger.Error(ctx, "查询客服队列失败", logger.ErrorField("error", err))
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, &dto.SupportQueueView{
		Rooms:      dto.NewRoomViews(page.Rooms),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
		TotalCount: page.TotalCount,
	})
}

// Assign 客服认领会话
// POST /api/v1/support/:roomId/assign
func (h *SupportHandler) Assign(c *gin.Context) {
	roomId, ok := parseIdParam(c, "roomId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	agentId := util.GetUserIDFromContext(ctx)

	r, err := h.supportUsecase.AssignAgent(ctx, roomId, agentId)
	if err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "认领客服会话失败",
				logger.Int64("room_id", roomId),
				logger.ErrorField("error", err),
			)
		}
		result.Fail(c, nil, code)
		return
	}
	result.Success(c, dto.NewRoomView(r))
}

// Close 关闭客服会话
// POST /api/v1/support/:roomId/close
func (h *SupportHandler) Close(c *gin.Context) {
	roomId, ok := parseIdParam(c, "roomId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	if err := h.supportUsecase.Close(ctx, roomId, userId); err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "关闭客服会话失败",
				logger.Int64("room_id", roomId),
				logger.ErrorField("error", err),
			)
		}
		result.Fail(c, nil, code)
		return
	}
	result.Success(c, nil)
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ChatDDing/apps/chat/internal/domain/room"
	"ChatDDing/apps/chat/internal/dto"
	"ChatDDing/apps/chat/internal/usecase"
	"ChatDDing/consts"
	"ChatDDing/pkg/logger"
	"ChatDDing/pkg/result"
	"ChatDDing/pkg/util"
)

// RoomHandler 房间接口
type RoomHandler struct {
	roomUsecase *usecase.RoomUsecase
}

// NewRoomHandler 创建房间接口处理器
func NewRoomHandler(roomUsecase *usecase.RoomUsecase) *RoomHandler {
	return &RoomHandler{roomUsecase: roomUsecase}
}

// CreateDm 创建私聊
// POST /api/v1/rooms/dm
func (h *RoomHandler) CreateDm(c *gin.Context) {
	var req dto.CreateDmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeBodyError)
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	created, err := h.roomUsecase.CreateDm(ctx, userId, req.PeerId, req.InitialMessage)
	if err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "创建私聊失败",
				logger.Int64("peer_id", req.PeerId),
				logger.ErrorField("error", err),
			)
		}
		result.Fail(c, nil, code)
		return
	}

	result.Success(c, &dto.CreateRoomView{
		Room:      dto.NewRoomView(created.Room),
		IsNewRoom: created.IsNewRoom,
	})
}

// CreateGroup 创建群聊
// POST /api/v1/rooms/group
func (h *RoomHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeBodyError)
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	created, err := h.roomUsecase.CreateGroup(ctx, userId, req.Name, req.MemberIds)
	if err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "创建群聊失败", logger.ErrorField("error", err))
		}
		result.Fail(c, nil, code)
		return
	}

	result.Success(c, &dto.CreateRoomView{Room: dto.NewRoomView(created), IsNewRoom: true})
}

// CreatePlaceInquiry 创建场地咨询
// POST /api/v1/rooms/place-inquiry
func (h *RoomHandler) CreatePlaceInquiry(c *gin.Context) {
	var req dto.CreatePlaceInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeBodyError)
		return
	}

	ctx := c.Request.Context()
	guestId := util.GetUserIDFromContext(ctx)

	created, err := h.roomUsecase.CreatePlaceInquiry(ctx, guestId, req.HostId, room.PlaceContext{
		ContextType: req.ContextType,
		ContextId:   req.ContextId,
		ContextName: req.ContextName,
		Metadata:    req.Metadata,
	}, req.InitialMessage)
	if err != nil {
		code := errToCode(err)
		if !consts.IsNonServerError(code) {
			logger.Error(ctx, "创建场地咨询失败",
				logger.Int64("context_id", req.ContextId),
				logger.ErrorField("error", err),
			)
		}
		result.Fail(c, nil, code)
		return
	}

	result.Success(c, &dto.CreateRoomView{
		Room:      dto.NewRoomView(created.Room),
		IsNewRoom: created.IsNewRoom,
	})
}

// ListRooms 房间列表（含未读数与最新消息预览）
// GET /api/v1/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	summaries, err := h.roomUsecase.ListRooms(ctx, userId)
	if err != nil {
		logger.Error(ctx, "查询房间列表失败", logger.ErrorField("error", err))
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}
	result.Success(c, dto.NewRoomSummaryViews(summaries))
}

// GetRoomDetail 房间详情
// GET /api/v1/rooms/:roomId
func (h *RoomHandler) GetRoomDetail(c *gin.Context) {
	roomId, ok := parseIdParam(c, "roomId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	r, err := h.roomUsecase.GetRoomDetail(ctx, roomId, userId)
	if err != nil {
		result.Fail(c, nil, errToCode(err))
		return
	}
	result.Success(c, dto.NewRoomView(r))
}

// ListHostInquiries 房东视角的咨询列表，支持 ?context_id= 过滤。
// GET /api/v1/rooms/host-inquiries
func (h *RoomHandler) ListHostInquiries(c *gin.Context) {
	ctx := c.Request.Context()
	hostId := util.GetUserIDFromContext(ctx)

	var contextId int64
	if raw := c.Query("context_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			result.Fail(c, nil, consts.CodeParamError)
			return
		}
		contextId = parsed
	}

	summaries, err := h.roomUsecase.ListHostInquiries(ctx, hostId, contextId)
	if err != nil {
		logger.Error(ctx, "查询咨询列表失败", logger.ErrorField("error", err))
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}
	result.Success(c, dto.NewRoomSummaryViews(summaries))
}

// ChangeGroupName 修改群名
// PATCH /api/v1/rooms/:roomId/name
func (h *RoomHandler) ChangeGroupName(c *gin.Context) {
	roomId, ok := parseIdParam(c, "roomId")
	if !ok {
		return
	}
	var req dto.ChangeGroupNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeBodyError)
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	r, err := h.roomUsecase.ChangeGroupName(ctx, roomId, userId, req.Name)
	if err != nil {
		result.Fail(c, nil, errToCode(err))
		return
	}
	result.Success(c, dto.NewRoomView(r))
}

// SetNotification 房间通知开关
// PATCH /api/v1/rooms/:roomId/notification
func (h *RoomHandler) SetNotification(c *gin.Context) {
	roomId, ok := parseIdParam(c, "roomId")
	if !ok {
		return
	}
	var req dto.SetNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		result.Fail(c, nil, consts.CodeBodyError)
		return
	}

	ctx := c.Request.Context()
	userId := util.GetUserIDFromContext(ctx)

	if err := h.roomUsecase.SetNotification(ctx, roomId, userId, *req.Enabled); err != nil {
		result.Fail(c, nil, errToCode(err))
		return
	}
	result.Success(c, nil)
}

// parseIdParam 解析路径中的正整数 ID，失败时直接写参数错误响应。
func parseIdParam(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || value <= 0 {
		result.Fail(c, nil, consts.CodeParamError)
		return 0, false
	}
	return value, true
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/response"
)

// OptionHandler 投票选项模块 HTTP 处理器
type OptionHandler struct {
	optionSvc service.OptionService
}

// NewOptionHandler 创建 OptionHandler
func NewOptionHandler(optionSvc service.OptionService) *OptionHandler {
	return &OptionHandler{optionSvc: optionSvc}
}

// CreateOption 创建选项（管理员）
// POST /api/v1/options
func (h *OptionHandler) CreateOption(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.optionSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateOption 更新选项（管理员）
// PUT /api/v1/options/:id
func (h *OptionHandler) UpdateOption(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	id, ok := pathID(c, service.ErrOptionNotFound)
	if !ok {
		return
	}

	result, err := h.optionSvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// GetOption 选项详情
// GET /api/v1/options/:id
func (h *OptionHandler) GetOption(c *gin.Context) {
	id, ok := pathID(c, service.ErrOptionNotFound)
	if !ok {
		return
	}

	result, err := h.optionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// ListOptions 选项列表
// GET /api/v1/options
func (h *OptionHandler) ListOptions(c *gin.Context) {
	var req dto.OptionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.optionSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetLimit(), req.GetOffset())
}

// ListSessionOptions 某会话的全部选项
// GET /api/v1/sessions/:id/options
func (h *OptionHandler) ListSessionOptions(c *gin.Context) {
	id, ok := pathID(c, service.ErrSessionNotFound)
	if !ok {
		return
	}

	list, err := h.optionSvc.ListBySession(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, list)
}

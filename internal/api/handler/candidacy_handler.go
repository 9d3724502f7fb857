package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/response"
)

// CandidacyHandler 候选申请模块 HTTP 处理器
type CandidacyHandler struct {
	candidacySvc service.CandidacyService
}

// NewCandidacyHandler 创建 CandidacyHandler
func NewCandidacyHandler(candidacySvc service.CandidacyService) *CandidacyHandler {
	return &CandidacyHandler{candidacySvc: candidacySvc}
}

// SubmitCandidacy 提交候选申请
// POST /api/v1/candidacies
func (h *CandidacyHandler) SubmitCandidacy(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.SubmitCandidacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.candidacySvc.Submit(c.Request.Context(), &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateCandidacy 审批或修改候选申请（管理员）
// PUT /api/v1/candidacies/:id
func (h *CandidacyHandler) UpdateCandidacy(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateCandidacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	id, ok := pathID(c, service.ErrCandidacyNotFound)
	if !ok {
		return
	}

	result, err := h.candidacySvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// ListCandidacies 候选申请列表
// GET /api/v1/candidacies
func (h *CandidacyHandler) ListCandidacies(c *gin.Context) {
	var req dto.CandidacyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.candidacySvc.List(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetLimit(), req.GetOffset())
}

// GetCandidacy 候选申请详情
// GET /api/v1/candidacies/:id
func (h *CandidacyHandler) GetCandidacy(c *gin.Context) {
	id, ok := pathID(c, service.ErrCandidacyNotFound)
	if !ok {
		return
	}

	result, err := h.candidacySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

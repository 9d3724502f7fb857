package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/response"
)

// VoteHandler 投票模块 HTTP 处理器
type VoteHandler struct {
	voteSvc service.VoteService
}

// NewVoteHandler 创建 VoteHandler
func NewVoteHandler(voteSvc service.VoteService) *VoteHandler {
	return &VoteHandler{voteSvc: voteSvc}
}

// CastVote 投票
// POST /api/v1/votes
func (h *VoteHandler) CastVote(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.voteSvc.Cast(c.Request.Context(), &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// Tally 计票结果
// GET /api/v1/sessions/:id/tally
func (h *VoteHandler) Tally(c *gin.Context) {
	id, ok := pathID(c, service.ErrSessionNotFound)
	if !ok {
		return
	}

	result, err := h.voteSvc.Tally(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// ListPublicVotes 公开投票明细
// GET /api/v1/sessions/:id/votes/public
func (h *VoteHandler) ListPublicVotes(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindFailed(c, err)
		return
	}

	id, ok := pathID(c, service.ErrSessionNotFound)
	if !ok {
		return
	}

	list, total, err := h.voteSvc.ListPublicVotes(c.Request.Context(), id, &page)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, page.GetLimit(), page.GetOffset())
}

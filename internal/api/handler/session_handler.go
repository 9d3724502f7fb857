package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/response"
)

// SessionHandler 投票会话模块 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.VotingSessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.VotingSessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// ListSessions 会话列表，支持 status/category_id/title 过滤
// GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	h.list(c, "")
}

// ListOpenSessions 开放中的会话
// GET /api/v1/sessions/open
func (h *SessionHandler) ListOpenSessions(c *gin.Context) {
	h.list(c, model.SessionOpen)
}

// ListClosedSessions 已关闭的会话
// GET /api/v1/sessions/closed
func (h *SessionHandler) ListClosedSessions(c *gin.Context) {
	h.list(c, model.SessionClosed)
}

func (h *SessionHandler) list(c *gin.Context, status model.SessionStatus) {
	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if status != "" {
		req.Status = string(status)
	}

	list, total, err := h.sessionSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetLimit(), req.GetOffset())
}

// GetSession 会话详情
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := pathID(c, service.ErrSessionNotFound)
	if !ok {
		return
	}

	result, err := h.sessionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateSession 创建会话（管理员）
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.sessionSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateSession 部分更新会话（管理员）
// PUT /api/v1/sessions/:id
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	id, ok := pathID(c, service.ErrSessionNotFound)
	if !ok {
		return
	}

	result, err := h.sessionSvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteSession 删除会话（管理员）
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrSessionNotFound)
	if !ok {
		return
	}

	result, err := h.sessionSvc.Delete(c.Request.Context(), id, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// RefreshSessions 持久化关闭已过期的会话（管理员）
// POST /api/v1/sessions/refresh
func (h *SessionHandler) RefreshSessions(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.sessionSvc.Refresh(c.Request.Context(), caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// Calendar 下载会话的 iCalendar 文件
// GET /api/v1/sessions/:id/calendar.ics
func (h *SessionHandler) Calendar(c *gin.Context) {
	id, ok := pathID(c, service.ErrSessionNotFound)
	if !ok {
		return
	}
	data, err := h.sessionSvc.Calendar(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	filename := url.QueryEscape("sessao_" + id + ".ics")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+filename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

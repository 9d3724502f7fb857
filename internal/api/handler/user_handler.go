package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetUser 获取用户详情（本人或管理员）
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	id, ok := pathID(c, service.ErrUserNotFound)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, user)
}

// ListUsers 用户列表（管理员）
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetLimit(), req.GetOffset())
}

// UpdateUser 更新个人资料（本人或管理员，Service 层鉴权）
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	id, ok := pathID(c, service.ErrUserNotFound)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, user)
}

// ChangeCredentials 修改邮箱或密码
// PUT /api/v1/users/:id/credentials
func (h *UserHandler) ChangeCredentials(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ChangeCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	id, ok := pathID(c, service.ErrUserNotFound)
	if !ok {
		return
	}

	if err := h.userSvc.ChangeCredentials(c.Request.Context(), id, &req, caller); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, dto.MessageResponse{Message: "凭证已更新"})
}

// AssignRole 分配角色（管理员）
// PUT /api/v1/users/:id/role
func (h *UserHandler) AssignRole(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	id, ok := pathID(c, service.ErrUserNotFound)
	if !ok {
		return
	}

	user, err := h.userSvc.AssignRole(c.Request.Context(), id, &req, caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, user)
}

package service

import (
	"time"

	"github.com/VotaAI/Backend-API/internal/model"
	apperrors "github.com/VotaAI/Backend-API/pkg/errors"
)

var (
	ErrUnauthenticated = apperrors.Authentication(10002, "未登录或登录已过期")
	ErrForbidden       = apperrors.Authorization(10003, "权限不足")
)

// Caller 已认证的调用方身份
// Role 取自数据库中的用户记录，而非 Token 声明
type Caller struct {
	UserID    string
	Email     string
	FullName  string
	Role      model.Role
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin 是否管理员
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == model.RoleAdmin
}

// RequireRole 调用方角色必须等于 role
func RequireRole(caller *Caller, role model.Role) error {
	if caller == nil || caller.UserID == "" {
		return ErrUnauthenticated
	}
	if caller.Role != role {
		return ErrForbidden
	}
	return nil
}

// requireSelfOrAdmin 仅本人或管理员可操作
func requireSelfOrAdmin(caller *Caller, userID string) error {
	if caller == nil || caller.UserID == "" {
		return ErrUnauthenticated
	}
	if caller.UserID != userID && !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取 Access Token，交由 AuthService 校验并加载调用方
func JWTAuth(authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		caller, err := authSvc.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		// 将调用方注入上下文
		c.Set("caller", caller)
		c.Set("user_id", caller.UserID)
		c.Set("role", string(caller.Role))

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("caller")
		caller, ok := v.(*service.Caller)
		if !exists || !ok || caller == nil {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if caller.Role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}

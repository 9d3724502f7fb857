package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/response"
)

// MustGetCaller 从 Gin 上下文中安全提取已认证的调用方。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetCaller(c *gin.Context) (*service.Caller, bool) {
	v, exists := c.Get("caller")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	caller, ok := v.(*service.Caller)
	if !ok || caller == nil || caller.UserID == "" {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return caller, true
}

// bindFailed 参数绑定失败的统一响应，请求体超限时返回 413
func bindFailed(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
}

// pathID 读取路径参数 id，非 UUID 视为资源不存在并写入 notFound 对应的响应
func pathID(c *gin.Context, notFound error) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.FromError(c, notFound)
		return "", false
	}
	return id.String(), true
}

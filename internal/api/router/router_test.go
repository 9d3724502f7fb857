package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/VotaAI/Backend-API/config"
	"github.com/VotaAI/Backend-API/internal/api/handler"
	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/response"
)

type stubAuth struct{}

func (stubAuth) Register(context.Context, *dto.RegisterRequest) (*dto.UserResponse, error) {
	return nil, nil
}
func (stubAuth) Login(context.Context, *dto.LoginRequest) (*dto.TokenResponse, error) {
	return nil, nil
}
func (stubAuth) Authenticate(_ context.Context, token string) (*service.Caller, error) {
	switch token {
	case "admin-token":
		return &service.Caller{UserID: "u-admin", Role: model.RoleAdmin}, nil
	case "user-token":
		return &service.Caller{UserID: "u-std", Role: model.RoleStandard}, nil
	}
	return nil, service.ErrTokenInvalid
}
func (stubAuth) Logout(context.Context, *service.Caller) error { return nil }
func (stubAuth) Me(context.Context, *service.Caller) (*dto.UserDetailResponse, error) {
	return nil, nil
}

// 只验证路由层的鉴权拦截，业务 Handler 的 Service 均为空
func setupTestRouter() *gin.Engine {
	cfg := &config.Config{}
	cfg.Server.BodyLimit = 1 << 20
	cfg.Server.CORS.AllowOrigins = []string{"*"}

	h := handler.NewHandler(&service.Service{})
	return Setup(cfg, h, stubAuth{}, &repository.Repository{}, nil, zap.NewNop())
}

func request(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := setupTestRouter()

	w := request(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("期望 status=ok，实际=%v", body["status"])
	}
	if _, ok := body["redis"]; ok {
		t.Error("未配置 Redis 时不应返回 redis 字段")
	}
}

func TestRouteGating(t *testing.T) {
	r := setupTestRouter()

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
		wantBiz  int
	}{
		{"创建会话未登录", http.MethodPost, "/api/v1/sessions", "", http.StatusUnauthorized, 10002},
		{"创建会话普通用户", http.MethodPost, "/api/v1/sessions", "user-token", http.StatusForbidden, 10003},
		{"删除会话普通用户", http.MethodDelete, "/api/v1/sessions/s-1", "user-token", http.StatusForbidden, 10003},
		{"刷新会话普通用户", http.MethodPost, "/api/v1/sessions/refresh", "user-token", http.StatusForbidden, 10003},
		{"导出计票普通用户", http.MethodGet, "/api/v1/sessions/s-1/tally/export", "user-token", http.StatusForbidden, 10003},
		{"用户列表普通用户", http.MethodGet, "/api/v1/users", "user-token", http.StatusForbidden, 10003},
		{"分配角色普通用户", http.MethodPut, "/api/v1/users/u-1/role", "user-token", http.StatusForbidden, 10003},
		{"审批候选普通用户", http.MethodPut, "/api/v1/candidacies/c-1", "user-token", http.StatusForbidden, 10003},
		{"创建选项普通用户", http.MethodPost, "/api/v1/options", "user-token", http.StatusForbidden, 10003},
		{"创建分类普通用户", http.MethodPost, "/api/v1/categories", "user-token", http.StatusForbidden, 10003},
		{"投票未登录", http.MethodPost, "/api/v1/votes", "", http.StatusUnauthorized, 10002},
		{"提交候选无效令牌", http.MethodPost, "/api/v1/candidacies", "bogus", http.StatusUnauthorized, 0},
		{"查看用户未登录", http.MethodGet, "/api/v1/users/u-1", "", http.StatusUnauthorized, 10002},
		{"登出未登录", http.MethodPost, "/api/v1/auth/logout", "", http.StatusUnauthorized, 10002},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, tt.method, tt.path, tt.token)
			if w.Code != tt.wantCode {
				t.Fatalf("期望 %d，实际=%d body=%s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantBiz == 0 {
				return
			}
			var resp response.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if resp.Code != tt.wantBiz {
				t.Errorf("期望业务码 %d，实际=%d", tt.wantBiz, resp.Code)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	r := setupTestRouter()

	if w := request(r, http.MethodGet, "/api/v1/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	r := setupTestRouter()

	w := request(r, http.MethodGet, "/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("期望响应携带 X-Request-ID")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("期望 nosniff，实际=%q", w.Header().Get("X-Content-Type-Options"))
	}
}

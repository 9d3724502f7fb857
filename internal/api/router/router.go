package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/VotaAI/Backend-API/config"
	"github.com/VotaAI/Backend-API/internal/api/handler"
	"github.com/VotaAI/Backend-API/internal/api/middleware"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil（黑名单与限流降级）
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	authSvc service.AuthService,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "ok"}
		code := http.StatusOK
		if err := repo.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = err.Error()
			} else {
				status["redis"] = "ok"
			}
		}
		c.JSON(code, status)
	})

	jwtAuth := middleware.JWTAuth(authSvc)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)
	loginLimit := middleware.RateLimit("login", rdb, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow, logger)
	voteLimit := middleware.RateLimit("vote", rdb, cfg.RateLimit.VoteLimit, cfg.RateLimit.VoteWindow, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块
		auth := v1.Group("/auth")
		{
			auth.POST("/register", loginLimit, h.Auth.Register)
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/logout", jwtAuth, h.Auth.Logout)
			auth.GET("/me", jwtAuth, h.Auth.Me)
		}

		// 用户模块（本人或管理员，Service 层鉴权）
		users := v1.Group("/users", jwtAuth)
		{
			users.GET("", adminOnly, h.User.ListUsers)
			users.GET("/:id", h.User.GetUser)
			users.PUT("/:id", h.User.UpdateUser)
			users.PUT("/:id/credentials", h.User.ChangeCredentials)
			users.PUT("/:id/role", adminOnly, h.User.AssignRole)
		}

		// 分类模块
		categories := v1.Group("/categories")
		{
			categories.GET("", h.Category.ListCategories)
			categories.POST("", jwtAuth, adminOnly, h.Category.CreateCategory)
		}

		// 投票会话模块
		sessions := v1.Group("/sessions")
		{
			sessions.GET("", h.Session.ListSessions)
			sessions.GET("/open", h.Session.ListOpenSessions)
			sessions.GET("/closed", h.Session.ListClosedSessions)
			sessions.GET("/:id", h.Session.GetSession)
			sessions.GET("/:id/options", h.Option.ListSessionOptions)
			sessions.GET("/:id/tally", h.Vote.Tally)
			sessions.GET("/:id/votes/public", h.Vote.ListPublicVotes)
			sessions.GET("/:id/calendar.ics", h.Session.Calendar)

			sessions.POST("", jwtAuth, adminOnly, h.Session.CreateSession)
			sessions.POST("/refresh", jwtAuth, adminOnly, h.Session.RefreshSessions)
			sessions.PUT("/:id", jwtAuth, adminOnly, h.Session.UpdateSession)
			sessions.DELETE("/:id", jwtAuth, adminOnly, h.Session.DeleteSession)
			sessions.GET("/:id/tally/export", jwtAuth, adminOnly, h.Export.ExportTally)
		}

		// 投票选项模块
		options := v1.Group("/options")
		{
			options.GET("", h.Option.ListOptions)
			options.GET("/:id", h.Option.GetOption)
			options.POST("", jwtAuth, adminOnly, h.Option.CreateOption)
			options.PUT("/:id", jwtAuth, adminOnly, h.Option.UpdateOption)
		}

		// 候选申请模块
		candidacies := v1.Group("/candidacies")
		{
			candidacies.GET("", h.Candidacy.ListCandidacies)
			candidacies.GET("/:id", h.Candidacy.GetCandidacy)
			candidacies.POST("", jwtAuth, h.Candidacy.SubmitCandidacy)
			candidacies.PUT("/:id", jwtAuth, adminOnly, h.Candidacy.UpdateCandidacy)
		}

		// 投票模块
		v1.POST("/votes", jwtAuth, voteLimit, h.Vote.CastVote)
	}

	return r
}

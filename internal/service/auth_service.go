package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	apperrors "github.com/VotaAI/Backend-API/pkg/errors"
	"github.com/VotaAI/Backend-API/pkg/hash"
	"github.com/VotaAI/Backend-API/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperrors.Authentication(11001, "密码错误")
	ErrLoginUserNotFound  = apperrors.NotFound(11002, "邮箱或 CPF 对应的用户不存在")
	ErrTokenInvalid       = apperrors.Authentication(11003, "Token 无效或已过期")
	ErrTokenRevoked       = apperrors.Authentication(11004, "Token 已注销")
	ErrEmailExists        = apperrors.Conflict(11005, "邮箱已被注册")
	ErrCPFExists          = apperrors.Conflict(11006, "CPF 已被注册")
	ErrInvalidCPF         = apperrors.Validation(11007, "CPF 格式无效")
)

// TokenBlacklist Token 黑名单存储（由 Redis 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证与访问控制业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Authenticate 校验 Token 并加载调用方，角色以数据库为准
	Authenticate(ctx context.Context, token string) (*Caller, error)
	Logout(ctx context.Context, caller *Caller) error
	Me(ctx context.Context, caller *Caller) (*dto.UserDetailResponse, error)
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	hasher    hash.Hasher
	blacklist TokenBlacklist
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService 创建 AuthService 实例
// blacklist 可为 nil（未启用 Redis 时登出仅由客户端丢弃 Token）
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	hasher hash.Hasher,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		hasher:    hasher,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)
	cpf := normalizeCPF(req.CPF)
	if len(cpf) != 11 {
		return nil, ErrInvalidCPF
	}

	if err := checkIdentityFree(ctx, s.repo, s.logger, email, cpf, ""); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		FullName: strings.TrimSpace(req.FullName),
		CPF:      cpf,
		Email:    email,
		Role:     model.RoleStandard,
	}

	// 用户与凭证同一事务写入
	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.User.Create(ctx, user); err != nil {
			return err
		}
		return txRepo.Credential.Create(ctx, &model.Credential{
			UserID:       user.UserID,
			PasswordHash: passwordHash,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, identityConflict(err, ErrEmailExists)
		}
		s.logger.Error("注册用户失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户注册成功", zap.String("user_id", user.UserID))
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.findByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if err != nil {
		return nil, err
	}

	cred, err := s.repo.Credential.GetByUserID(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询凭证失败", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	if err := s.hasher.Verify(req.Password, cred.PasswordHash); err != nil {
		if !errors.Is(err, hash.ErrMismatch) {
			s.logger.Warn("密码校验异常", zap.String("user_id", user.UserID), zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	accessToken, _, err := s.jwtMgr.GenerateAccessToken(jwt.Subject{
		UserID:   user.UserID,
		Email:    user.Email,
		Role:     string(user.Role),
		FullName: user.FullName,
	})
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toUserResponse(user),
	}, nil
}

// findByIdentifier 先按邮箱查找，再按 CPF 查找
func (s *authService) findByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(identifier))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("按邮箱查询用户失败", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	cpf := normalizeCPF(identifier)
	if cpf == "" {
		return nil, ErrLoginUserNotFound
	}
	user, err = s.repo.User.GetByCPF(ctx, cpf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoginUserNotFound
		}
		s.logger.Error("按 CPF 查询用户失败", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	return user, nil
}

// ────────────────────── Authenticate ──────────────────────

func (s *authService) Authenticate(ctx context.Context, token string) (*Caller, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// Redis 不可用时降级放行
			s.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", claims.UserID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	if !user.Role.Valid() {
		s.logger.Warn("用户角色无效", zap.String("id", user.UserID), zap.String("role", string(user.Role)))
		return nil, ErrForbidden
	}

	caller := &Caller{
		UserID:   user.UserID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		caller.ExpiresAt = claims.ExpiresAt.Time
	}
	return caller, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, caller *Caller) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if s.blacklist == nil || caller.TokenID == "" {
		return nil
	}

	ttl := caller.ExpiresAt.Sub(s.now())
	if err := s.blacklist.BlacklistToken(ctx, caller.TokenID, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("user_id", caller.UserID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, caller *Caller) (*dto.UserDetailResponse, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.repo.User.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", caller.UserID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	return toUserDetailResponse(user), nil
}

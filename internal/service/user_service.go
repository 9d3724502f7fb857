package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	apperrors "github.com/VotaAI/Backend-API/pkg/errors"
	"github.com/VotaAI/Backend-API/pkg/hash"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound       = apperrors.NotFound(12001, "用户不存在")
	ErrInvalidRole        = apperrors.Validation(12002, "角色无效，仅支持 standard 或 admin")
	ErrUserSelfRoleChange = apperrors.Validation(12003, "不能修改自己的角色")
	ErrNothingToUpdate    = apperrors.Validation(12004, "没有需要更新的字段")
)

// UserService 用户业务接口
type UserService interface {
	GetByID(ctx context.Context, id string, caller *Caller) (*dto.UserDetailResponse, error)
	List(ctx context.Context, req *dto.UserListRequest, caller *Caller) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, caller *Caller) (*dto.UserResponse, error)
	// ChangeCredentials 修改邮箱和/或密码，新密码重新哈希
	ChangeCredentials(ctx context.Context, id string, req *dto.ChangeCredentialsRequest, caller *Caller) error
	AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, caller *Caller) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	hasher hash.Hasher
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, hasher hash.Hasher, logger *zap.Logger) UserService {
	return &userService{repo: repo, hasher: hasher, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string, caller *Caller) (*dto.UserDetailResponse, error) {
	if err := requireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDetailResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest, caller *Caller) ([]dto.UserResponse, int64, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, 0, err
	}

	filter := repository.UserFilter{Keyword: strings.TrimSpace(req.Keyword)}
	if req.Role != "" {
		role, err := model.ParseRole(req.Role)
		if err != nil {
			return nil, 0, ErrInvalidRole
		}
		filter.Role = role
	}

	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, apperrors.Persistence(err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, caller *Caller) (*dto.UserResponse, error) {
	if err := requireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	if req.FullName == nil && req.CPF == nil {
		return nil, ErrNothingToUpdate
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.CPF != nil {
		cpf := normalizeCPF(*req.CPF)
		if len(cpf) != 11 {
			return nil, ErrInvalidCPF
		}
		if cpf != user.CPF {
			if err := checkIdentityFree(ctx, s.repo, s.logger, "", cpf, user.UserID); err != nil {
				return nil, err
			}
			user.CPF = cpf
		}
	}
	user.UpdatedBy = &caller.UserID

	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, identityConflict(err, ErrCPFExists)
		}
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── ChangeCredentials ──────────────────────

func (s *userService) ChangeCredentials(ctx context.Context, id string, req *dto.ChangeCredentialsRequest, caller *Caller) error {
	if err := requireSelfOrAdmin(caller, id); err != nil {
		return err
	}
	if req.Email == nil && req.NewPassword == nil {
		return ErrNothingToUpdate
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	emailChanged := false
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if err := checkIdentityFree(ctx, s.repo, s.logger, email, "", user.UserID); err != nil {
				return err
			}
			user.Email = email
			user.UpdatedBy = &caller.UserID
			emailChanged = true
		}
	}

	var newHash string
	if req.NewPassword != nil {
		newHash, err = s.hasher.Hash(*req.NewPassword)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return err
		}
	}

	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if emailChanged {
			if err := txRepo.User.Update(ctx, user); err != nil {
				return err
			}
		}
		if newHash != "" {
			return txRepo.Credential.UpdatePasswordHash(ctx, user.UserID, newHash, caller.UserID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return identityConflict(err, ErrEmailExists)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("修改凭证失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户凭证已修改", zap.String("user_id", id), zap.String("operator", caller.UserID))
	return nil
}

// ────────────────────── AssignRole ──────────────────────

func (s *userService) AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, caller *Caller) (*dto.UserResponse, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, err
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	if caller.UserID == id {
		return nil, ErrUserSelfRoleChange
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.UpdatedBy = &caller.UserID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("分配角色失败", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	s.logger.Info("用户角色已变更",
		zap.String("user_id", id),
		zap.String("role", string(role)),
		zap.String("operator", caller.UserID),
	)
	resp := toUserResponse(user)
	return &resp, nil
}

// ── 内部方法 ──

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	return user, nil
}

// checkIdentityFree 邮箱与 CPF 不得被其他用户占用，空值跳过
func checkIdentityFree(ctx context.Context, repo *repository.Repository, logger *zap.Logger, email, cpf, selfID string) error {
	if email != "" {
		existing, err := repo.User.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.UserID != selfID:
			return ErrEmailExists
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			logger.Error("检查邮箱唯一性失败", zap.Error(err))
			return apperrors.Persistence(err)
		}
	}
	if cpf != "" {
		existing, err := repo.User.GetByCPF(ctx, cpf)
		switch {
		case err == nil && existing.UserID != selfID:
			return ErrCPFExists
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			logger.Error("检查 CPF 唯一性失败", zap.Error(err))
			return apperrors.Persistence(err)
		}
	}
	return nil
}

// identityConflict 按冲突的唯一索引区分邮箱与 CPF，无法识别时返回 fallback
func identityConflict(err error, fallback error) error {
	switch repository.DuplicateConstraint(err) {
	case repository.ConstraintUserEmail:
		return ErrEmailExists
	case repository.ConstraintUserCPF:
		return ErrCPFExists
	}
	return fallback
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeCPF 仅保留 ASCII 数字（兼容 000.000.000-00 写法）
func normalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.UserID,
		FullName: user.FullName,
		CPF:      user.CPF,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}

func toUserDetailResponse(user *model.User) *dto.UserDetailResponse {
	return &dto.UserDetailResponse{
		UserResponse: toUserResponse(user),
		CreatedAt:    formatTime(user.CreatedAt),
	}
}

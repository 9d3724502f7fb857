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
)

// ── 选项模块业务错误 ──

var (
	ErrOptionNotFound      = apperrors.NotFound(15001, "投票选项不存在")
	ErrOptionTitleRequired = apperrors.Validation(15002, "选项标题不能为空")
)

// OptionService 投票选项业务接口
type OptionService interface {
	Create(ctx context.Context, req *dto.CreateOptionRequest, caller *Caller) (*dto.OptionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOptionRequest, caller *Caller) (*dto.OptionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.OptionResponse, error)
	List(ctx context.Context, req *dto.OptionListRequest) ([]dto.OptionResponse, int64, error)
	ListBySession(ctx context.Context, sessionID string) ([]dto.OptionResponse, error)
}

type optionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOptionService 创建 OptionService 实例
func NewOptionService(repo *repository.Repository, logger *zap.Logger) OptionService {
	return &optionService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *optionService) Create(ctx context.Context, req *dto.CreateOptionRequest, caller *Caller) (*dto.OptionResponse, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrOptionTitleRequired
	}

	if _, err := s.repo.Session.GetByID(ctx, req.VotingSessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询投票会话失败", zap.String("id", req.VotingSessionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	option := &model.Option{
		VotingSessionID: req.VotingSessionID,
		Title:           title,
		Details:         strings.TrimSpace(req.Details),
		BaseModel:       model.BaseModel{CreatedBy: &caller.UserID},
	}
	if err := s.repo.Option.Create(ctx, option); err != nil {
		s.logger.Error("创建投票选项失败", zap.String("session_id", req.VotingSessionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	return toOptionResponse(option), nil
}

// ────────────────────── Update ──────────────────────

func (s *optionService) Update(ctx context.Context, id string, req *dto.UpdateOptionRequest, caller *Caller) (*dto.OptionResponse, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, err
	}

	option, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrOptionTitleRequired
		}
		option.Title = title
	}
	if req.Details != nil {
		option.Details = strings.TrimSpace(*req.Details)
	}
	option.UpdatedBy = &caller.UserID

	if err := s.repo.Option.Update(ctx, option); err != nil {
		s.logger.Error("更新投票选项失败", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	return toOptionResponse(option), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *optionService) GetByID(ctx context.Context, id string) (*dto.OptionResponse, error) {
	option, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOptionResponse(option), nil
}

func (s *optionService) List(ctx context.Context, req *dto.OptionListRequest) ([]dto.OptionResponse, int64, error) {
	options, total, err := s.repo.Option.List(ctx, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("列出投票选项失败", zap.Error(err))
		return nil, 0, apperrors.Persistence(err)
	}

	result := make([]dto.OptionResponse, 0, len(options))
	for i := range options {
		result = append(result, *toOptionResponse(&options[i]))
	}
	return result, total, nil
}

func (s *optionService) ListBySession(ctx context.Context, sessionID string) ([]dto.OptionResponse, error) {
	if _, err := s.repo.Session.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询投票会话失败", zap.String("id", sessionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	options, err := s.repo.Option.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("列出会话选项失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	result := make([]dto.OptionResponse, 0, len(options))
	for i := range options {
		result = append(result, *toOptionResponse(&options[i]))
	}
	return result, nil
}

func (s *optionService) load(ctx context.Context, id string) (*model.Option, error) {
	option, err := s.repo.Option.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		s.logger.Error("查询投票选项失败", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	return option, nil
}

func toOptionResponse(o *model.Option) *dto.OptionResponse {
	return &dto.OptionResponse{
		ID:              o.OptionID,
		VotingSessionID: o.VotingSessionID,
		Title:           o.Title,
		Details:         o.Details,
		CandidacyID:     o.CandidacyID,
		CreatedAt:       formatTime(o.CreatedAt),
	}
}

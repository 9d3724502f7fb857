package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	apperrors "github.com/VotaAI/Backend-API/pkg/errors"
)

// ── 分类模块业务错误 ──

var (
	ErrCategoryNotFound     = apperrors.NotFound(17001, "分类不存在")
	ErrCategoryExists       = apperrors.Conflict(17002, "分类名称已存在")
	ErrCategoryNameRequired = apperrors.Validation(17003, "分类名称不能为空")
)

// CategoryService 分类业务接口
type CategoryService interface {
	Create(ctx context.Context, req *dto.CreateCategoryRequest, caller *Caller) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
}

type categoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(repo *repository.Repository, logger *zap.Logger) CategoryService {
	return &categoryService{repo: repo, logger: logger}
}

func (s *categoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest, caller *Caller) (*dto.CategoryResponse, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	category := &model.Category{
		Name:      name,
		BaseModel: model.BaseModel{CreatedBy: &caller.UserID},
	}
	if err := s.repo.Category.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		s.logger.Error("创建分类失败", zap.String("name", name), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("列出分类失败", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	result := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, *toCategoryResponse(&categories[i]))
	}
	return result, nil
}

func toCategoryResponse(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.CategoryID, Name: c.Name}
}

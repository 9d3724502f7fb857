package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/model"
)

// OptionRepository 投票选项数据访问接口
type OptionRepository interface {
	Create(ctx context.Context, option *model.Option) error
	GetByID(ctx context.Context, id string) (*model.Option, error)
	GetByCandidacyID(ctx context.Context, candidacyID string) (*model.Option, error)
	Update(ctx context.Context, option *model.Option) error
	List(ctx context.Context, offset, limit int) ([]model.Option, int64, error)
	ListBySession(ctx context.Context, sessionID string) ([]model.Option, error)
}

type optionRepo struct {
	db *gorm.DB
}

// NewOptionRepo 创建 OptionRepository 实例
func NewOptionRepo(db *gorm.DB) OptionRepository {
	return &optionRepo{db: db}
}

func (r *optionRepo) Create(ctx context.Context, option *model.Option) error {
	return translateWriteErr(r.db.WithContext(ctx).Create(option).Error)
}

func (r *optionRepo) GetByID(ctx context.Context, id string) (*model.Option, error) {
	var option model.Option
	err := r.db.WithContext(ctx).
		Where("option_id = ?", id).
		First(&option).Error
	if err != nil {
		return nil, translateReadErr(err)
	}
	return &option, nil
}

func (r *optionRepo) GetByCandidacyID(ctx context.Context, candidacyID string) (*model.Option, error) {
	var option model.Option
	err := r.db.WithContext(ctx).
		Where("candidacy_id = ?", candidacyID).
		First(&option).Error
	if err != nil {
		return nil, translateReadErr(err)
	}
	return &option, nil
}

func (r *optionRepo) Update(ctx context.Context, option *model.Option) error {
	return translateWriteErr(r.db.WithContext(ctx).Save(option).Error)
}

func (r *optionRepo) List(ctx context.Context, offset, limit int) ([]model.Option, int64, error) {
	var options []model.Option
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Option{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC, option_id ASC").
		Find(&options).Error; err != nil {
		return nil, 0, err
	}

	return options, total, nil
}

func (r *optionRepo) ListBySession(ctx context.Context, sessionID string) ([]model.Option, error) {
	var options []model.Option
	err := r.db.WithContext(ctx).
		Where("voting_session_id = ?", sessionID).
		Order("title ASC, option_id ASC").
		Find(&options).Error
	return options, err
}

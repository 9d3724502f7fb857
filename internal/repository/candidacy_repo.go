package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VotaAI/Backend-API/internal/model"
)

// CandidacyFilter 候选申请列表筛选条件
type CandidacyFilter struct {
	Status          model.CandidacyStatus
	VotingSessionID string
}

// CandidacyRepository 候选申请数据访问接口
type CandidacyRepository interface {
	Create(ctx context.Context, candidacy *model.Candidacy) error
	GetByID(ctx context.Context, id string) (*model.Candidacy, error)
	// GetByIDForUpdate 行级锁读取，必须在事务中调用
	GetByIDForUpdate(ctx context.Context, id string) (*model.Candidacy, error)
	Update(ctx context.Context, candidacy *model.Candidacy) error
	List(ctx context.Context, filter CandidacyFilter, offset, limit int) ([]model.Candidacy, int64, error)
	// ExistsActive 同一用户在同一会话中是否已有未被拒绝的申请
	ExistsActive(ctx context.Context, userID, sessionID string) (bool, error)
}

type candidacyRepo struct {
	db *gorm.DB
}

// NewCandidacyRepo 创建 CandidacyRepository 实例
func NewCandidacyRepo(db *gorm.DB) CandidacyRepository {
	return &candidacyRepo{db: db}
}

func (r *candidacyRepo) Create(ctx context.Context, candidacy *model.Candidacy) error {
	return translateWriteErr(r.db.WithContext(ctx).Omit("User", "Session").Create(candidacy).Error)
}

func (r *candidacyRepo) GetByID(ctx context.Context, id string) (*model.Candidacy, error) {
	var candidacy model.Candidacy
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("candidacy_id = ?", id).
		First(&candidacy).Error
	if err != nil {
		return nil, translateReadErr(err)
	}
	return &candidacy, nil
}

func (r *candidacyRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Candidacy, error) {
	var candidacy model.Candidacy
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("candidacy_id = ?", id).
		First(&candidacy).Error
	if err != nil {
		return nil, translateReadErr(err)
	}
	return &candidacy, nil
}

func (r *candidacyRepo) Update(ctx context.Context, candidacy *model.Candidacy) error {
	return r.db.WithContext(ctx).Omit("User", "Session").Save(candidacy).Error
}

func (r *candidacyRepo) List(ctx context.Context, filter CandidacyFilter, offset, limit int) ([]model.Candidacy, int64, error) {
	var candidacies []model.Candidacy
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Candidacy{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.VotingSessionID != "" {
		db = db.Where("voting_session_id = ?", filter.VotingSessionID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("created_at DESC, candidacy_id ASC").
		Find(&candidacies).Error; err != nil {
		return nil, 0, err
	}

	return candidacies, total, nil
}

func (r *candidacyRepo) ExistsActive(ctx context.Context, userID, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Candidacy{}).
		Where("user_id = ? AND voting_session_id = ? AND status <> ?", userID, sessionID, model.CandidacyRejected).
		Count(&count).Error
	return count > 0, err
}

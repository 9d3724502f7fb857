package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/model"
)

// SessionFilter 投票会话列表筛选条件
// Status 按读取时推导的状态过滤，需配合 now 使用
type SessionFilter struct {
	Status     model.SessionStatus
	CategoryID string
	Title      string
}

// VotingSessionRepository 投票会话数据访问接口
type VotingSessionRepository interface {
	Create(ctx context.Context, session *model.VotingSession) error
	GetByID(ctx context.Context, id string) (*model.VotingSession, error)
	Update(ctx context.Context, session *model.VotingSession) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter SessionFilter, now time.Time, offset, limit int) ([]model.VotingSession, int64, error)
	// CloseExpired 将已过结束时间但仍为 open 的会话置为 closed，返回影响行数
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

type votingSessionRepo struct {
	db *gorm.DB
}

// NewVotingSessionRepo 创建 VotingSessionRepository 实例
func NewVotingSessionRepo(db *gorm.DB) VotingSessionRepository {
	return &votingSessionRepo{db: db}
}

func (r *votingSessionRepo) Create(ctx context.Context, session *model.VotingSession) error {
	return translateWriteErr(r.db.WithContext(ctx).Create(session).Error)
}

func (r *votingSessionRepo) GetByID(ctx context.Context, id string) (*model.VotingSession, error) {
	var session model.VotingSession
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("voting_session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, translateReadErr(err)
	}
	return &session, nil
}

func (r *votingSessionRepo) Update(ctx context.Context, session *model.VotingSession) error {
	return translateWriteErr(r.db.WithContext(ctx).Omit("Category").Save(session).Error)
}

func (r *votingSessionRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("voting_session_id = ?", id).
		Delete(&model.VotingSession{})
	if result.Error != nil {
		return translateReadErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *votingSessionRepo) List(ctx context.Context, filter SessionFilter, now time.Time, offset, limit int) ([]model.VotingSession, int64, error) {
	var sessions []model.VotingSession
	var total int64

	db := r.db.WithContext(ctx).Model(&model.VotingSession{})

	switch filter.Status {
	case model.SessionOpen:
		db = db.Where("status = ? AND end_date >= ?", model.SessionOpen, now)
	case model.SessionClosed:
		db = db.Where("(status = ? OR end_date < ?)", model.SessionClosed, now)
	}
	if filter.CategoryID != "" {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Title != "" {
		db = db.Where("title ILIKE ?", containsPattern(filter.Title))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Category").
		Offset(offset).Limit(limit).
		Order("end_date DESC, voting_session_id ASC").
		Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *votingSessionRepo) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.VotingSession{}).
		Where("status = ? AND end_date < ?", model.SessionOpen, now).
		Updates(map[string]interface{}{
			"status":     model.SessionClosed,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/model"
)

// VoteRepository 投票记录数据访问接口（只追加）
type VoteRepository interface {
	Create(ctx context.Context, vote *model.Vote) error
	ExistsByUserAndSession(ctx context.Context, userID, sessionID string) (bool, error)
	// Tally 按选项分组计票，仅返回至少一票的选项
	// 排序：票数降序、标题升序、选项 ID 升序
	Tally(ctx context.Context, sessionID string) ([]model.TallyRow, error)
	ListPublic(ctx context.Context, sessionID string, offset, limit int) ([]model.PublicVoteRow, int64, error)
}

type voteRepo struct {
	db *gorm.DB
}

// NewVoteRepo 创建 VoteRepository 实例
func NewVoteRepo(db *gorm.DB) VoteRepository {
	return &voteRepo{db: db}
}

func (r *voteRepo) Create(ctx context.Context, vote *model.Vote) error {
	return translateWriteErr(r.db.WithContext(ctx).Omit("User", "Option").Create(vote).Error)
}

func (r *voteRepo) ExistsByUserAndSession(ctx context.Context, userID, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Where("user_id = ? AND voting_session_id = ?", userID, sessionID).
		Count(&count).Error
	return count > 0, err
}

func (r *voteRepo) Tally(ctx context.Context, sessionID string) ([]model.TallyRow, error) {
	var rows []model.TallyRow
	err := r.db.WithContext(ctx).
		Table("votes AS v").
		Select("o.option_id AS option_id, o.title AS title, COUNT(v.vote_id) AS count").
		Joins("JOIN options AS o ON o.option_id = v.option_id AND o.voting_session_id = v.voting_session_id").
		Where("v.voting_session_id = ?", sessionID).
		Group("o.option_id, o.title").
		Order("count DESC, o.title ASC, o.option_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *voteRepo) ListPublic(ctx context.Context, sessionID string, offset, limit int) ([]model.PublicVoteRow, int64, error) {
	var rows []model.PublicVoteRow
	var total int64

	base := r.db.WithContext(ctx).
		Table("votes AS v").
		Where("v.voting_session_id = ? AND v.is_public = ?", sessionID, true)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Select("v.vote_id AS vote_id, u.full_name AS voter_name, o.option_id AS option_id, o.title AS title, v.cast_at AS cast_at").
		Joins("JOIN users AS u ON u.user_id = v.user_id").
		Joins("JOIN options AS o ON o.option_id = v.option_id").
		Order("v.cast_at ASC, v.vote_id ASC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

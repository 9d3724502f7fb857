package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/model"
)

// CredentialRepository 登录凭证数据访问接口
type CredentialRepository interface {
	Create(ctx context.Context, cred *model.Credential) error
	GetByUserID(ctx context.Context, userID string) (*model.Credential, error)
	UpdatePasswordHash(ctx context.Context, userID, hash, updatedBy string) error
}

type credentialRepo struct {
	db *gorm.DB
}

// NewCredentialRepo 创建 CredentialRepository 实例
func NewCredentialRepo(db *gorm.DB) CredentialRepository {
	return &credentialRepo{db: db}
}

func (r *credentialRepo) Create(ctx context.Context, cred *model.Credential) error {
	return translateWriteErr(r.db.WithContext(ctx).Create(cred).Error)
}

func (r *credentialRepo) GetByUserID(ctx context.Context, userID string) (*model.Credential, error) {
	var cred model.Credential
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cred).Error
	if err != nil {
		return nil, translateReadErr(err)
	}
	return &cred, nil
}

func (r *credentialRepo) UpdatePasswordHash(ctx context.Context, userID, hash, updatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Credential{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"updated_by":    updatedBy,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

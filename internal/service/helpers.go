package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/repository"
	apperrors "github.com/VotaAI/Backend-API/pkg/errors"
)

const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseDate 支持 "2006-01-02"（当日 UTC 零点）与 RFC3339
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// runInTx 在单个事务中执行 fn，fn 返回错误或 panic 时回滚
// 存储层错误统一包装为 Persistence 错误
func runInTx(ctx context.Context, repo *repository.Repository, logger *zap.Logger, fn func(txRepo *repository.Repository) error) error {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		logger.Error("开启事务失败", zap.Error(err))
		return apperrors.Persistence(err)
	}

	rollback := repo.Snapshot()
	if tx != nil {
		rollback = func() { tx.Rollback() }
	}
	defer func() {
		if r := recover(); r != nil {
			rollback()
			panic(r)
		}
	}()

	if err := fn(repo.WithTx(tx)); err != nil {
		rollback()
		return apperrors.Persistence(err)
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			logger.Error("提交事务失败", zap.Error(err))
			return apperrors.Persistence(err)
		}
	}
	return nil
}

// mapSessionErr 将会话查询错误转换为业务错误
func mapSessionErr(logger *zap.Logger, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSessionNotFound
	}
	logger.Error("查询投票会话失败", zap.String("id", id), zap.Error(err))
	return apperrors.Persistence(err)
}

package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionExpirer 持久化关闭过期会话（由 VotingSessionService 实现）
type SessionExpirer interface {
	RefreshExpired(ctx context.Context) (int64, error)
}

// ExpirySweeper 定时将已过期的投票会话持久化为 closed
// 读取路径按结束时间推导状态，扫描只影响库中存储的状态
type ExpirySweeper struct {
	expirer  SessionExpirer
	interval time.Duration
	logger   *zap.Logger
}

// NewExpirySweeper 创建扫描器，interval<=0 时 Run 立即返回
func NewExpirySweeper(expirer SessionExpirer, interval time.Duration, logger *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{expirer: expirer, interval: interval, logger: logger}
}

// Run 阻塞运行直到 ctx 取消；启动时先扫描一次
func (w *ExpirySweeper) Run(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	w.logger.Info("会话过期扫描已启动", zap.Duration("interval", w.interval))
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("会话过期扫描已停止")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpirySweeper) sweep(ctx context.Context) {
	if _, err := w.expirer.RefreshExpired(ctx); err != nil && ctx.Err() == nil {
		w.logger.Warn("会话过期扫描失败", zap.Error(err))
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	apperrors "github.com/VotaAI/Backend-API/pkg/errors"
)

// ── 投票模块业务错误 ──

var (
	ErrOptionNotInSession = apperrors.Validation(16001, "选项不属于该投票会话")
	ErrSessionNotOpen     = apperrors.Validation(16002, "投票会话已关闭")
	ErrAlreadyVoted       = apperrors.Conflict(16003, "已在该投票会话投过票")
)

// VoteService 投票与计票业务接口
type VoteService interface {
	// Cast 记录一票，每个用户在每个会话中只能投一票
	Cast(ctx context.Context, req *dto.CastVoteRequest, caller *Caller) (*dto.VoteResponse, error)
	// Tally 按选项计票，无票时返回 empty=true 而非错误
	Tally(ctx context.Context, sessionID string) (*dto.TallyResponse, error)
	ListPublicVotes(ctx context.Context, sessionID string, page *dto.PaginationRequest) ([]dto.PublicVoteResponse, int64, error)
}

type voteService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewVoteService 创建 VoteService 实例
func NewVoteService(repo *repository.Repository, logger *zap.Logger) VoteService {
	return &voteService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Cast ──────────────────────

func (s *voteService) Cast(ctx context.Context, req *dto.CastVoteRequest, caller *Caller) (*dto.VoteResponse, error) {
	if caller == nil || caller.UserID == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.repo.Session.GetByID(ctx, req.VotingSessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询投票会话失败", zap.String("id", req.VotingSessionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	option, err := s.repo.Option.GetByID(ctx, req.OptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		s.logger.Error("查询投票选项失败", zap.String("id", req.OptionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	if option.VotingSessionID != session.VotingSessionID {
		return nil, ErrOptionNotInSession
	}

	now := s.now().UTC()
	if !session.IsOpen(now) {
		return nil, ErrSessionNotOpen
	}

	voted, err := s.repo.Vote.ExistsByUserAndSession(ctx, caller.UserID, session.VotingSessionID)
	if err != nil {
		s.logger.Error("检查重复投票失败", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	if voted {
		return nil, ErrAlreadyVoted
	}

	vote := &model.Vote{
		UserID:          caller.UserID,
		VotingSessionID: session.VotingSessionID,
		OptionID:        option.OptionID,
		IsPublic:        req.IsPublic,
		CastAt:          now,
	}
	if err := s.repo.Vote.Create(ctx, vote); err != nil {
		// 并发重复投票由唯一约束兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyVoted
		}
		s.logger.Error("记录投票失败", zap.String("session_id", session.VotingSessionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	return &dto.VoteResponse{
		ID:              vote.VoteID,
		VotingSessionID: vote.VotingSessionID,
		OptionID:        vote.OptionID,
		IsPublic:        vote.IsPublic,
		CastAt:          formatTime(vote.CastAt),
	}, nil
}

// ────────────────────── Tally ──────────────────────

func (s *voteService) Tally(ctx context.Context, sessionID string) (*dto.TallyResponse, error) {
	if _, err := s.repo.Session.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询投票会话失败", zap.String("id", sessionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	rows, err := s.repo.Vote.Tally(ctx, sessionID)
	if err != nil {
		s.logger.Error("计票失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	resp := &dto.TallyResponse{
		VotingSessionID: sessionID,
		Results:         make([]dto.TallyItem, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Results = append(resp.Results, dto.TallyItem{
			OptionID: r.OptionID,
			Title:    r.Title,
			Votes:    r.Count,
		})
		resp.TotalVotes += r.Count
	}
	resp.Empty = len(resp.Results) == 0
	return resp, nil
}

// ────────────────────── ListPublicVotes ──────────────────────

func (s *voteService) ListPublicVotes(ctx context.Context, sessionID string, page *dto.PaginationRequest) ([]dto.PublicVoteResponse, int64, error) {
	if _, err := s.repo.Session.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrSessionNotFound
		}
		s.logger.Error("查询投票会话失败", zap.String("id", sessionID), zap.Error(err))
		return nil, 0, apperrors.Persistence(err)
	}

	rows, total, err := s.repo.Vote.ListPublic(ctx, sessionID, page.GetOffset(), page.GetLimit())
	if err != nil {
		s.logger.Error("列出公开投票失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, 0, apperrors.Persistence(err)
	}

	result := make([]dto.PublicVoteResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.PublicVoteResponse{
			ID:          r.VoteID,
			VoterName:   r.VoterName,
			OptionID:    r.OptionID,
			OptionTitle: r.Title,
			CastAt:      formatTime(r.CastAt),
		})
	}
	return result, total, nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	apperrors "github.com/VotaAI/Backend-API/pkg/errors"
)

// ── 候选申请模块业务错误 ──

var (
	ErrCandidacyNotFound      = apperrors.NotFound(14001, "候选申请不存在")
	ErrCandidacyNotAllowed    = apperrors.Validation(14002, "该投票会话不接受候选申请")
	ErrCandidacySessionClosed = apperrors.Validation(14003, "投票会话已关闭，不能提交候选申请")
	ErrCandidacyDuplicate     = apperrors.Conflict(14004, "已在该投票会话提交过候选申请")
	ErrCandidacyStatusInvalid = apperrors.Validation(14005, "申请状态无效，仅支持 pending、approved 或 rejected")
	ErrCandidacyTransition    = apperrors.Validation(14006, "不允许的状态变更")
	ErrCandidacyFrozen        = apperrors.Validation(14007, "申请已处理，不能再修改内容")
	ErrCandidacyEmptyPatch    = apperrors.Validation(14008, "没有需要更新的字段")
)

// CandidacyService 候选申请工作流业务接口
type CandidacyService interface {
	Submit(ctx context.Context, req *dto.SubmitCandidacyRequest, caller *Caller) (*dto.CandidacyResponse, error)
	// Update 按迁移表变更状态，pending→approved 在同一事务内生成投票选项
	Update(ctx context.Context, id string, req *dto.UpdateCandidacyRequest, caller *Caller) (*dto.CandidacyResponse, error)
	List(ctx context.Context, req *dto.CandidacyListRequest) ([]dto.CandidacyResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.CandidacyResponse, error)
}

type candidacyService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCandidacyService 创建 CandidacyService 实例
func NewCandidacyService(repo *repository.Repository, logger *zap.Logger) CandidacyService {
	return &candidacyService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Submit ──────────────────────

func (s *candidacyService) Submit(ctx context.Context, req *dto.SubmitCandidacyRequest, caller *Caller) (*dto.CandidacyResponse, error) {
	if caller == nil || caller.UserID == "" {
		return nil, ErrUnauthenticated
	}

	// 普通用户只能为自己提交，管理员可代提交
	userID := caller.UserID
	if req.UserID != "" && req.UserID != caller.UserID {
		if !caller.IsAdmin() {
			return nil, ErrForbidden
		}
		userID = req.UserID
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	session, err := s.repo.Session.GetByID(ctx, req.VotingSessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询投票会话失败", zap.String("id", req.VotingSessionID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	if !session.AllowsCandidacy {
		return nil, ErrCandidacyNotAllowed
	}
	if !session.IsOpen(s.now().UTC()) {
		return nil, ErrCandidacySessionClosed
	}

	exists, err := s.repo.Candidacy.ExistsActive(ctx, userID, session.VotingSessionID)
	if err != nil {
		s.logger.Error("检查重复申请失败", zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	if exists {
		return nil, ErrCandidacyDuplicate
	}

	candidacy := &model.Candidacy{
		UserID:          userID,
		VotingSessionID: session.VotingSessionID,
		Details:         strings.TrimSpace(req.Details),
		Status:          model.CandidacyPending,
		BaseModel:       model.BaseModel{CreatedBy: &caller.UserID},
	}
	if err := s.repo.Candidacy.Create(ctx, candidacy); err != nil {
		s.logger.Error("创建候选申请失败", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	candidacy.User = user

	s.logger.Info("候选申请已提交",
		zap.String("id", candidacy.CandidacyID),
		zap.String("session_id", session.VotingSessionID),
	)
	return toCandidacyResponse(candidacy, nil), nil
}

// ────────────────────── Update ──────────────────────

func (s *candidacyService) Update(ctx context.Context, id string, req *dto.UpdateCandidacyRequest, caller *Caller) (*dto.CandidacyResponse, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, err
	}
	if req.Status == nil && req.Details == nil {
		return nil, ErrCandidacyEmptyPatch
	}

	var target model.CandidacyStatus
	if req.Status != nil {
		status, ok := model.ParseCandidacyStatus(*req.Status)
		if !ok {
			return nil, ErrCandidacyStatusInvalid
		}
		target = status
	}

	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		candidacy, err := txRepo.Candidacy.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCandidacyNotFound
			}
			return err
		}

		changed := false
		if req.Details != nil {
			if candidacy.Status != model.CandidacyPending {
				return ErrCandidacyFrozen
			}
			candidacy.Details = strings.TrimSpace(*req.Details)
			changed = true
		}

		effect := model.EffectNoop
		if target != "" {
			var ok bool
			effect, ok = candidacy.Status.Transition(target)
			if !ok {
				return ErrCandidacyTransition
			}
			if effect != model.EffectNoop {
				candidacy.Status = target
				changed = true
			}
		}

		if !changed {
			return nil
		}

		candidacy.UpdatedBy = &caller.UserID
		if err := txRepo.Candidacy.Update(ctx, candidacy); err != nil {
			return err
		}

		if effect == model.EffectEmitOption {
			return s.emitOption(ctx, txRepo, candidacy, caller)
		}
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindPersistence {
			s.logger.Error("更新候选申请失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// emitOption 审批通过时生成投票选项：标题为候选人姓名，详情为申请内容
func (s *candidacyService) emitOption(ctx context.Context, txRepo *repository.Repository, candidacy *model.Candidacy, caller *Caller) error {
	user, err := txRepo.User.GetByID(ctx, candidacy.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	candidacyID := candidacy.CandidacyID
	option := &model.Option{
		VotingSessionID: candidacy.VotingSessionID,
		Title:           user.FullName,
		Details:         candidacy.Details,
		CandidacyID:     &candidacyID,
		BaseModel:       model.BaseModel{CreatedBy: &caller.UserID},
	}
	if err := txRepo.Option.Create(ctx, option); err != nil {
		return err
	}

	s.logger.Info("候选申请已通过，生成投票选项",
		zap.String("candidacy_id", candidacyID),
		zap.String("option_id", option.OptionID),
	)
	return nil
}

// ────────────────────── List / GetByID ──────────────────────

func (s *candidacyService) List(ctx context.Context, req *dto.CandidacyListRequest) ([]dto.CandidacyResponse, int64, error) {
	filter := repository.CandidacyFilter{VotingSessionID: req.VotingSessionID}
	if req.Status != "" && !strings.EqualFold(req.Status, "all") {
		status, ok := model.ParseCandidacyStatus(req.Status)
		if !ok {
			return nil, 0, ErrCandidacyStatusInvalid
		}
		filter.Status = status
	}

	candidacies, total, err := s.repo.Candidacy.List(ctx, filter, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("列出候选申请失败", zap.Error(err))
		return nil, 0, apperrors.Persistence(err)
	}

	result := make([]dto.CandidacyResponse, 0, len(candidacies))
	for i := range candidacies {
		result = append(result, *toCandidacyResponse(&candidacies[i], nil))
	}
	return result, total, nil
}

func (s *candidacyService) GetByID(ctx context.Context, id string) (*dto.CandidacyResponse, error) {
	candidacy, err := s.repo.Candidacy.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidacyNotFound
		}
		s.logger.Error("查询候选申请失败", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	var option *model.Option
	if candidacy.Status == model.CandidacyApproved {
		option, err = s.repo.Option.GetByCandidacyID(ctx, id)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询申请对应选项失败", zap.String("id", id), zap.Error(err))
			return nil, apperrors.Persistence(err)
		}
	}
	return toCandidacyResponse(candidacy, option), nil
}

func toCandidacyResponse(c *model.Candidacy, option *model.Option) *dto.CandidacyResponse {
	resp := &dto.CandidacyResponse{
		ID:              c.CandidacyID,
		UserID:          c.UserID,
		VotingSessionID: c.VotingSessionID,
		Details:         c.Details,
		Status:          string(c.Status),
		CreatedAt:       formatTime(c.CreatedAt),
	}
	if c.User != nil {
		resp.User = &dto.UserResponse{
			ID:       c.User.UserID,
			FullName: c.User.FullName,
			Email:    c.User.Email,
			Role:     string(c.User.Role),
		}
	}
	if option != nil {
		resp.Option = toOptionResponse(option)
	}
	return resp
}

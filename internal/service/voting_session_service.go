package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	apperrors "github.com/VotaAI/Backend-API/pkg/errors"
)

// ── 投票会话模块业务错误 ──

var (
	ErrSessionNotFound      = apperrors.NotFound(13001, "投票会话不存在")
	ErrSessionTitleRequired = apperrors.Validation(13002, "标题不能为空")
	ErrSessionDateRange     = apperrors.Validation(13003, "开始时间不能晚于结束时间")
	ErrSessionDateFormat    = apperrors.Validation(13004, "日期格式无效，应为 YYYY-MM-DD 或 RFC3339")
	ErrSessionStatusInvalid = apperrors.Validation(13005, "会话状态无效，仅支持 open 或 closed")
)

// VotingSessionService 投票会话生命周期业务接口
// 读取时按结束时间推导状态，不在读路径上写库
type VotingSessionService interface {
	// RefreshExpired 持久化过期关闭：open 且结束时间早于当前时间的会话置为 closed
	RefreshExpired(ctx context.Context) (int64, error)
	Refresh(ctx context.Context, caller *Caller) (*dto.RefreshSessionsResponse, error)
	Create(ctx context.Context, req *dto.CreateSessionRequest, caller *Caller) (*dto.SessionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSessionRequest, caller *Caller) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id string, caller *Caller) (*dto.DeleteSessionResponse, error)
	List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.SessionResponse, error)
	// Calendar 导出会话的 iCalendar 文件
	Calendar(ctx context.Context, id string) ([]byte, error)
}

type votingSessionService struct {
	repo    *repository.Repository
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

// NewVotingSessionService 创建 VotingSessionService 实例
func NewVotingSessionService(repo *repository.Repository, baseURL string, logger *zap.Logger) VotingSessionService {
	return &votingSessionService{
		repo:    repo,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
	}
}

// ────────────────────── RefreshExpired ──────────────────────

func (s *votingSessionService) RefreshExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.Session.CloseExpired(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error("关闭过期会话失败", zap.Error(err))
		return 0, apperrors.Persistence(err)
	}
	if n > 0 {
		s.logger.Info("已关闭过期会话", zap.Int64("count", n))
	}
	return n, nil
}

func (s *votingSessionService) Refresh(ctx context.Context, caller *Caller) (*dto.RefreshSessionsResponse, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, err
	}
	n, err := s.RefreshExpired(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshSessionsResponse{Closed: n}, nil
}

// ────────────────────── Create ──────────────────────

func (s *votingSessionService) Create(ctx context.Context, req *dto.CreateSessionRequest, caller *Caller) (*dto.SessionResponse, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrSessionTitleRequired
	}
	start, ok := parseDate(req.StartDate)
	if !ok {
		return nil, ErrSessionDateFormat
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		return nil, ErrSessionDateFormat
	}
	if start.After(end) {
		return nil, ErrSessionDateRange
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	session := &model.VotingSession{
		Title:           title,
		Description:     strings.TrimSpace(req.Description),
		CategoryID:      categoryID,
		StartDate:       start,
		EndDate:         end,
		AllowsCandidacy: req.AllowsCandidacy,
		Status:          model.SessionOpen,
		BaseModel:       model.BaseModel{CreatedBy: &caller.UserID},
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.logger.Error("创建投票会话失败", zap.String("title", title), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	s.logger.Info("投票会话已创建",
		zap.String("id", session.VotingSessionID),
		zap.String("operator", caller.UserID),
	)
	return s.get(ctx, session.VotingSessionID)
}

// ────────────────────── Update ──────────────────────

// Update 部分更新，字段缺省或显式 null 均不修改
func (s *votingSessionService) Update(ctx context.Context, id string, req *dto.UpdateSessionRequest, caller *Caller) (*dto.SessionResponse, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, err
	}

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrSessionTitleRequired
		}
		session.Title = title
	}
	if req.Description != nil {
		session.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
		session.CategoryID = categoryID
		session.Category = nil
	}
	if req.StartDate != nil {
		start, ok := parseDate(*req.StartDate)
		if !ok {
			return nil, ErrSessionDateFormat
		}
		session.StartDate = start
	}
	if req.EndDate != nil {
		end, ok := parseDate(*req.EndDate)
		if !ok {
			return nil, ErrSessionDateFormat
		}
		session.EndDate = end
	}
	if session.StartDate.After(session.EndDate) {
		return nil, ErrSessionDateRange
	}
	if req.AllowsCandidacy != nil {
		session.AllowsCandidacy = *req.AllowsCandidacy
	}
	if req.Status != nil {
		status, ok := model.ParseSessionStatus(*req.Status)
		if !ok {
			return nil, ErrSessionStatusInvalid
		}
		session.Status = status
	}
	session.UpdatedBy = &caller.UserID

	if err := s.repo.Session.Update(ctx, session); err != nil {
		s.logger.Error("更新投票会话失败", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	return s.get(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *votingSessionService) Delete(ctx context.Context, id string, caller *Caller) (*dto.DeleteSessionResponse, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, err
	}

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Session.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("删除投票会话失败", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}

	s.logger.Info("投票会话已删除", zap.String("id", id), zap.String("operator", caller.UserID))
	return &dto.DeleteSessionResponse{
		ID:      id,
		Title:   session.Title,
		Message: fmt.Sprintf("投票会话「%s」已删除", session.Title),
	}, nil
}

// ────────────────────── List / GetByID ──────────────────────

func (s *votingSessionService) List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, int64, error) {
	filter := repository.SessionFilter{
		CategoryID: req.CategoryID,
		Title:      strings.TrimSpace(req.Title),
	}
	if req.Status != "" && !strings.EqualFold(req.Status, "all") {
		status, ok := model.ParseSessionStatus(req.Status)
		if !ok {
			return nil, 0, ErrSessionStatusInvalid
		}
		filter.Status = status
	}

	now := s.now().UTC()
	sessions, total, err := s.repo.Session.List(ctx, filter, now, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("列出投票会话失败", zap.Error(err))
		return nil, 0, apperrors.Persistence(err)
	}

	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, *toSessionResponse(&sessions[i], now))
	}
	return result, total, nil
}

func (s *votingSessionService) GetByID(ctx context.Context, id string) (*dto.SessionResponse, error) {
	return s.get(ctx, id)
}

// ────────────────────── Calendar ──────────────────────

func (s *votingSessionService) Calendar(ctx context.Context, id string) ([]byte, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//VotaAI//Voting Sessions//PT-BR")

	event := cal.AddEvent(session.VotingSessionID + "@votaai")
	event.SetDtStampTime(now)
	event.SetCreatedTime(session.CreatedAt)
	event.SetStartAt(session.StartDate)
	event.SetEndAt(session.EndDate)
	event.SetSummary(session.Title)
	if session.Description != "" {
		event.SetDescription(session.Description)
	}
	if s.baseURL != "" {
		event.SetURL(fmt.Sprintf("%s/api/v1/sessions/%s", s.baseURL, session.VotingSessionID))
	}
	if session.EffectiveStatus(now) == model.SessionClosed {
		event.SetStatus(ics.ObjectStatusCancelled)
	} else {
		event.SetStatus(ics.ObjectStatusConfirmed)
	}

	return []byte(cal.Serialize()), nil
}

// ── 内部方法 ──

func (s *votingSessionService) load(ctx context.Context, id string) (*model.VotingSession, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询投票会话失败", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	return session, nil
}

func (s *votingSessionService) get(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session, s.now().UTC()), nil
}

// resolveCategory 空值表示不关联分类，非空时分类必须存在
func (s *votingSessionService) resolveCategory(ctx context.Context, categoryID *string) (*string, error) {
	if categoryID == nil || *categoryID == "" {
		return nil, nil
	}
	if _, err := s.repo.Category.GetByID(ctx, *categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.logger.Error("查询分类失败", zap.String("id", *categoryID), zap.Error(err))
		return nil, apperrors.Persistence(err)
	}
	id := *categoryID
	return &id, nil
}

func toSessionResponse(session *model.VotingSession, now time.Time) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:              session.VotingSessionID,
		Title:           session.Title,
		Description:     session.Description,
		StartDate:       formatTime(session.StartDate),
		EndDate:         formatTime(session.EndDate),
		AllowsCandidacy: session.AllowsCandidacy,
		Status:          string(session.EffectiveStatus(now)),
		CreatedAt:       formatTime(session.CreatedAt),
	}
	if session.Category != nil {
		resp.Category = toCategoryResponse(session.Category)
	}
	return resp
}

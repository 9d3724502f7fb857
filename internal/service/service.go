package service

import (
	"go.uber.org/zap"

	"github.com/VotaAI/Backend-API/config"
	"github.com/VotaAI/Backend-API/internal/repository"
	"github.com/VotaAI/Backend-API/pkg/hash"
	"github.com/VotaAI/Backend-API/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	User      UserService
	Category  CategoryService
	Session   VotingSessionService
	Option    OptionService
	Candidacy CandidacyService
	Vote      VoteService
	Export    ExportService
}

// NewService 创建 Service 聚合
// blacklist 可为 nil
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	hasher hash.Hasher,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	vote := NewVoteService(repo, logger)
	return &Service{
		Auth:      NewAuthService(repo, jwtMgr, hasher, blacklist, logger),
		User:      NewUserService(repo, hasher, logger),
		Category:  NewCategoryService(repo, logger),
		Session:   NewVotingSessionService(repo, cfg.Server.BaseURL, logger),
		Option:    NewOptionService(repo, logger),
		Candidacy: NewCandidacyService(repo, logger),
		Vote:      vote,
		Export:    NewExportService(repo, vote, logger),
	}
}

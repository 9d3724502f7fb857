package handler

import "github.com/VotaAI/Backend-API/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Category  *CategoryHandler
	Session   *SessionHandler
	Option    *OptionHandler
	Candidacy *CandidacyHandler
	Vote      *VoteHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		User:      NewUserHandler(svc.User),
		Category:  NewCategoryHandler(svc.Category),
		Session:   NewSessionHandler(svc.Session),
		Option:    NewOptionHandler(svc.Option),
		Candidacy: NewCandidacyHandler(svc.Candidacy),
		Vote:      NewVoteHandler(svc.Vote),
		Export:    NewExportHandler(svc.Export),
	}
}

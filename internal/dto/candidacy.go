package dto

// ── 候选申请模块 DTO ──

// SubmitCandidacyRequest 提交候选申请
// user_id 仅管理员代提交时生效，普通用户固定为本人
type SubmitCandidacyRequest struct {
	VotingSessionID string `json:"voting_session_id" binding:"required,uuid"`
	UserID          string `json:"user_id"           binding:"omitempty,uuid"`
	Details         string `json:"details"           binding:"max=5000"`
}

// UpdateCandidacyRequest 部分更新请求
type UpdateCandidacyRequest struct {
	Status  *string `json:"status"`
	Details *string `json:"details" binding:"omitempty,max=5000"`
}

// CandidacyListRequest 列表查询参数
type CandidacyListRequest struct {
	PaginationRequest
	Status          string `form:"status"`
	VotingSessionID string `form:"voting_session_id" binding:"omitempty,uuid"`
}

// ── 候选申请模块响应 ──

// CandidacyResponse 候选申请响应
type CandidacyResponse struct {
	ID              string          `json:"id"`
	User            *UserResponse   `json:"user,omitempty"`
	UserID          string          `json:"user_id"`
	VotingSessionID string          `json:"voting_session_id"`
	Details         string          `json:"details"`
	Status          string          `json:"status"`
	Option          *OptionResponse `json:"option,omitempty"` // 审批通过时生成的选项
	CreatedAt       string          `json:"created_at"`
}

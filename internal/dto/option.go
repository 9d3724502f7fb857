package dto

// ── 投票选项模块 DTO ──

// CreateOptionRequest 管理员创建选项
type CreateOptionRequest struct {
	VotingSessionID string `json:"voting_session_id" binding:"required,uuid"`
	Title           string `json:"title"             binding:"required,max=200"`
	Details         string `json:"details"           binding:"max=5000"`
}

// UpdateOptionRequest 部分更新请求
type UpdateOptionRequest struct {
	Title   *string `json:"title"   binding:"omitempty,max=200"`
	Details *string `json:"details" binding:"omitempty,max=5000"`
}

// OptionListRequest 列表查询参数
type OptionListRequest struct {
	PaginationRequest
}

// OptionResponse 选项响应
type OptionResponse struct {
	ID              string  `json:"id"`
	VotingSessionID string  `json:"voting_session_id"`
	Title           string  `json:"title"`
	Details         string  `json:"details"`
	CandidacyID     *string `json:"candidacy_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

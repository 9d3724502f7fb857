package dto

// ── 投票会话模块 DTO ──

// CreateSessionRequest 创建投票会话请求
// 日期支持 "2025-01-02" 或 RFC3339
type CreateSessionRequest struct {
	Title           string  `json:"title"            binding:"required,max=200"`
	Description     string  `json:"description"`
	CategoryID      *string `json:"category_id"      binding:"omitempty,uuid"`
	StartDate       string  `json:"start_date"       binding:"required"`
	EndDate         string  `json:"end_date"         binding:"required"`
	AllowsCandidacy bool    `json:"allows_candidacy"`
}

// UpdateSessionRequest 部分更新请求
// 字段缺省或显式 null 均表示不修改
type UpdateSessionRequest struct {
	Title           *string `json:"title"            binding:"omitempty,max=200"`
	Description     *string `json:"description"`
	CategoryID      *string `json:"category_id"      binding:"omitempty,uuid"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	AllowsCandidacy *bool   `json:"allows_candidacy"`
	Status          *string `json:"status"`
}

// SessionListRequest 会话列表查询参数
type SessionListRequest struct {
	PaginationRequest
	Status     string `form:"status"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Title      string `form:"title"       binding:"omitempty,max=200"`
}

// ── 投票会话模块响应 ──

// SessionResponse 投票会话响应，status 为读取时推导值
type SessionResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Category        *CategoryResponse `json:"category,omitempty"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	AllowsCandidacy bool              `json:"allows_candidacy"`
	Status          string            `json:"status"`
	CreatedAt       string            `json:"created_at"`
}

// DeleteSessionResponse 删除确认
type DeleteSessionResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// RefreshSessionsResponse 过期刷新结果
type RefreshSessionsResponse struct {
	Closed int64 `json:"closed"`
}

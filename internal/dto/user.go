package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// UpdateUserRequest 更新用户资料请求
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=2,max=150"`
	CPF      *string `json:"cpf"       binding:"omitempty,min=11,max=14"`
}

// ChangeCredentialsRequest 修改登录凭证请求
type ChangeCredentialsRequest struct {
	Email       *string `json:"email"        binding:"omitempty,email"`
	NewPassword *string `json:"new_password" binding:"omitempty,min=8,max=72"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	CPF      string `json:"cpf,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UserDetailResponse 用户详细信息（GET /auth/me）
type UserDetailResponse struct {
	UserResponse
	CreatedAt string `json:"created_at"`
}

package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求，identifier 可为邮箱或 CPF
// 兼容 OAuth2 表单字段 username/password
type LoginRequest struct {
	Identifier string `json:"identifier" form:"username" binding:"required"`
	Password   string `json:"password"   form:"password" binding:"required"`
}

// RegisterRequest 自助注册请求（角色固定为 standard）
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=150"`
	CPF      string `json:"cpf"       binding:"required,min=11,max=14"`
	Email    string `json:"email"     binding:"required,email"`
	Password string `json:"password"  binding:"required,min=8,max=72"`
}

// ── 认证模块响应 ──

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

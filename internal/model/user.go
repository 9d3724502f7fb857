package model

// User 用户表，对应 users
type User struct {
	UserID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	FullName string `gorm:"type:varchar(150);not null"                     json:"full_name"`
	CPF      string `gorm:"column:cpf;type:varchar(14);not null"           json:"cpf"`
	Email    string `gorm:"type:varchar(255);not null"                     json:"email"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'standard'"   json:"role"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Credential 登录凭证表，与 User 一对一
type Credential struct {
	CredentialID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"credential_id"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	BaseModel
}

// TableName 指定表名
func (Credential) TableName() string { return "credentials" }

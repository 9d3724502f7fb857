package model

import (
	"fmt"
	"strings"
)

// Role 用户角色，封闭枚举
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// ParseRole 解析角色字符串，未知值直接拒绝
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "padrao", "padrão":
		return RoleStandard, nil
	case "admin", "administrador":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("未知角色: %q", s)
	}
}

// Valid 是否为合法角色
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

package model

import (
	"strings"
	"time"
)

// SessionStatus 投票会话状态
type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionClosed SessionStatus = "closed"
)

// ParseSessionStatus 解析会话状态，兼容葡语写法（aberta/fechada）
func ParseSessionStatus(s string) (SessionStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open", "aberta":
		return SessionOpen, true
	case "closed", "fechada", "encerrada":
		return SessionClosed, true
	default:
		return "", false
	}
}

// VotingSession 投票会话表，对应 voting_sessions
type VotingSession struct {
	VotingSessionID string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"voting_session_id"`
	Title           string        `gorm:"type:varchar(200);not null"                     json:"title"`
	Description     string        `gorm:"type:text"                                      json:"description"`
	CategoryID      *string       `gorm:"type:uuid"                                      json:"category_id,omitempty"`
	StartDate       time.Time     `gorm:"not null"                                       json:"start_date"`
	EndDate         time.Time     `gorm:"not null"                                       json:"end_date"`
	AllowsCandidacy bool          `gorm:"not null;default:false"                         json:"allows_candidacy"`
	Status          SessionStatus `gorm:"type:varchar(20);not null;default:'open'"       json:"status"`
	BaseModel

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
}

// TableName 指定表名
func (VotingSession) TableName() string { return "voting_sessions" }

// EffectiveStatus 读取时推导的状态：已关闭或结束时间已过即为 closed
func (s *VotingSession) EffectiveStatus(now time.Time) SessionStatus {
	if s.Status == SessionClosed || s.EndDate.Before(now) {
		return SessionClosed
	}
	return SessionOpen
}

// IsOpen 当前是否接受投票/报名
func (s *VotingSession) IsOpen(now time.Time) bool {
	return s.EffectiveStatus(now) == SessionOpen
}

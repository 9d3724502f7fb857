package model

import "strings"

// CandidacyStatus 候选申请状态
type CandidacyStatus string

const (
	CandidacyPending  CandidacyStatus = "pending"
	CandidacyApproved CandidacyStatus = "approved"
	CandidacyRejected CandidacyStatus = "rejected"
)

// ParseCandidacyStatus 不区分大小写解析状态，兼容葡语写法
func ParseCandidacyStatus(s string) (CandidacyStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "pendente":
		return CandidacyPending, true
	case "approved", "aprovada", "aprovado":
		return CandidacyApproved, true
	case "rejected", "recusada", "recusado", "rejeitada", "rejeitado":
		return CandidacyRejected, true
	default:
		return "", false
	}
}

// TransitionEffect 状态迁移的副作用
type TransitionEffect int

const (
	EffectNone       TransitionEffect = iota // 仅更新状态
	EffectNoop                               // 状态不变
	EffectEmitOption                         // 生成投票选项
)

var candidacyTransitions = map[CandidacyStatus]map[CandidacyStatus]TransitionEffect{
	CandidacyPending: {
		CandidacyPending:  EffectNoop,
		CandidacyApproved: EffectEmitOption,
		CandidacyRejected: EffectNone,
	},
	CandidacyApproved: {
		CandidacyApproved: EffectNoop,
	},
	CandidacyRejected: {
		CandidacyRejected: EffectNoop,
	},
}

// Transition 查询迁移表，ok=false 表示非法迁移
func (from CandidacyStatus) Transition(to CandidacyStatus) (TransitionEffect, bool) {
	effect, ok := candidacyTransitions[from][to]
	return effect, ok
}

// Candidacy 候选申请表，对应 candidacies
type Candidacy struct {
	CandidacyID     string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"candidacy_id"`
	UserID          string          `gorm:"type:uuid;not null"                             json:"user_id"`
	VotingSessionID string          `gorm:"type:uuid;not null"                             json:"voting_session_id"`
	Details         string          `gorm:"type:text"                                      json:"details"`
	Status          CandidacyStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	BaseModel

	// 关联
	User    *User          `gorm:"foreignKey:UserID;references:UserID"                   json:"user,omitempty"`
	Session *VotingSession `gorm:"foreignKey:VotingSessionID;references:VotingSessionID" json:"session,omitempty"`
}

// TableName 指定表名
func (Candidacy) TableName() string { return "candidacies" }

package model

import "time"

// Vote 投票记录表，只追加，对应 votes
type Vote struct {
	VoteID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"vote_id"`
	UserID          string    `gorm:"type:uuid;not null"                             json:"user_id"`
	VotingSessionID string    `gorm:"type:uuid;not null"                             json:"voting_session_id"`
	OptionID        string    `gorm:"type:uuid;not null"                             json:"option_id"`
	IsPublic        bool      `gorm:"not null;default:false"                         json:"is_public"`
	CastAt          time.Time `gorm:"not null"                                       json:"cast_at"`

	// 关联
	User   *User   `gorm:"foreignKey:UserID;references:UserID"     json:"user,omitempty"`
	Option *Option `gorm:"foreignKey:OptionID;references:OptionID" json:"option,omitempty"`
}

// TableName 指定表名
func (Vote) TableName() string { return "votes" }

// TallyRow 计票聚合行
type TallyRow struct {
	OptionID string
	Title    string
	Count    int64
}

// PublicVoteRow 公开投票明细行
type PublicVoteRow struct {
	VoteID    string
	VoterName string
	OptionID  string
	Title     string
	CastAt    time.Time
}

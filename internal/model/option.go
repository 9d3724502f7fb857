package model

// Option 投票选项表，对应 options
type Option struct {
	OptionID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"option_id"`
	VotingSessionID string  `gorm:"type:uuid;not null;index"                       json:"voting_session_id"`
	Title           string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Details         string  `gorm:"type:text"                                      json:"details"`
	CandidacyID     *string `gorm:"type:uuid;uniqueIndex"                          json:"candidacy_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Option) TableName() string { return "options" }

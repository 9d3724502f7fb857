package dto

// ── 投票模块 DTO ──

// CastVoteRequest 投票请求
type CastVoteRequest struct {
	VotingSessionID string `json:"voting_session_id" binding:"required,uuid"`
	OptionID        string `json:"option_id"         binding:"required,uuid"`
	IsPublic        bool   `json:"is_public"`
}

// VoteResponse 投票回执
type VoteResponse struct {
	ID              string `json:"id"`
	VotingSessionID string `json:"voting_session_id"`
	OptionID        string `json:"option_id"`
	IsPublic        bool   `json:"is_public"`
	CastAt          string `json:"cast_at"`
}

// TallyItem 单个选项的计票
type TallyItem struct {
	OptionID string `json:"option_id"`
	Title    string `json:"title"`
	Votes    int64  `json:"votes"`
}

// TallyResponse 计票结果，无票时 empty=true 而非报错
type TallyResponse struct {
	VotingSessionID string      `json:"voting_session_id"`
	Results         []TallyItem `json:"results"`
	TotalVotes      int64       `json:"total_votes"`
	Empty           bool        `json:"empty"`
}

// PublicVoteResponse 公开投票明细
type PublicVoteResponse struct {
	ID          string `json:"id"`
	VoterName   string `json:"voter_name"`
	OptionID    string `json:"option_id"`
	OptionTitle string `json:"option_title"`
	CastAt      string `json:"cast_at"`
}

package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateMotionRequest struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	Category       string `json:"category"`
	VotingDuration uint64 `json:"voting_duration"`
}

type MotionResponse struct {
	MotionID           uint64 `json:"motion_id"`
	Title              string `json:"title"`
	Body               string `json:"body"`
	Proposer           string `json:"proposer"`
	Category           string `json:"category"`
	Status             string `json:"status"`
	CreatedAt          uint64 `json:"created_at"`
	VotingStarts       uint64 `json:"voting_starts"`
	VotingEnds         uint64 `json:"voting_ends"`
	RequiredMajorityBp uint64 `json:"required_majority_bp"`
	MinParticipationBp uint64 `json:"min_participation_bp"`
	YesWeight          uint64 `json:"yes_weight"`
	NoWeight           uint64 `json:"no_weight"`
	AbstainWeight      uint64 `json:"abstain_weight"`
	Replayed           bool   `json:"replayed,omitempty"`
}

type MotionListResponse struct {
	Items []MotionResponse `json:"items"`
}

type MotionStatusResponse struct {
	MotionID uint64 `json:"motion_id"`
	Status   string `json:"status"`
}

type AddActionRequest struct {
	Kind       string `json:"kind"`
	SettingKey string `json:"setting_key,omitempty"`
	NewValue   string `json:"new_value,omitempty"`
	Recipient  string `json:"recipient,omitempty"`
	Amount     uint64 `json:"amount,omitempty"`
}

type ActionResponse struct {
	MotionID   uint64 `json:"motion_id"`
	ActionID   uint64 `json:"action_id"`
	Kind       string `json:"kind"`
	SettingKey string `json:"setting_key,omitempty"`
	NewValue   string `json:"new_value,omitempty"`
	Recipient  string `json:"recipient,omitempty"`
	Amount     uint64 `json:"amount,omitempty"`
}

type ActionListResponse struct {
	Items []ActionResponse `json:"items"`
}

type CastBallotRequest struct {
	Choice string `json:"choice"`
}

type BallotResponse struct {
	MotionID uint64 `json:"motion_id"`
	Voter    string `json:"voter"`
	Choice   string `json:"choice"`
	Weight   uint64 `json:"weight"`
	CastAt   uint64 `json:"cast_at"`
	Recast   bool   `json:"recast,omitempty"`
}

type TallyResponse struct {
	MotionID           uint64 `json:"motion_id"`
	YesWeight          uint64 `json:"yes_weight"`
	NoWeight           uint64 `json:"no_weight"`
	AbstainWeight      uint64 `json:"abstain_weight"`
	TotalWeight        uint64 `json:"total_weight"`
	ApprovalBp         uint64 `json:"approval_bp"`
	ParticipationBp    uint64 `json:"participation_bp"`
	RequiredMajorityBp uint64 `json:"required_majority_bp"`
	MinParticipationBp uint64 `json:"min_participation_bp"`
	Passing            bool   `json:"passing"`
}

type FinalizeResponse struct {
	MotionID        uint64 `json:"motion_id"`
	Status          string `json:"status"`
	ApprovalBp      uint64 `json:"approval_bp"`
	ParticipationBp uint64 `json:"participation_bp"`
	TotalWeight     uint64 `json:"total_weight"`
}

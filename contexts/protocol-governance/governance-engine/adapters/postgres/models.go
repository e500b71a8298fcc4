package postgresadapter

import (
	"time"

	"agora/contexts/protocol-governance/governance-engine/domain/entities"
)

type motionModel struct {
	ID                 uint64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title              string `gorm:"column:title"`
	Body               string `gorm:"column:body"`
	Proposer           string `gorm:"column:proposer;index"`
	Category           string `gorm:"column:category"`
	Status             string `gorm:"column:status;index"`
	CreatedAt          uint64 `gorm:"column:created_at_height"`
	VotingStarts       uint64 `gorm:"column:voting_starts"`
	VotingEnds         uint64 `gorm:"column:voting_ends"`
	RequiredMajorityBp uint64 `gorm:"column:required_majority_bp"`
	MinParticipationBp uint64 `gorm:"column:min_participation_bp"`
	YesWeight          uint64 `gorm:"column:yes_weight"`
	NoWeight           uint64 `gorm:"column:no_weight"`
	AbstainWeight      uint64 `gorm:"column:abstain_weight"`
}

func (motionModel) TableName() string {
	return "governance_motions"
}

func motionModelFromEntity(motion entities.Motion) motionModel {
	return motionModel{
		ID:                 motion.MotionID,
		Title:              motion.Title,
		Body:               motion.Body,
		Proposer:           motion.Proposer,
		Category:           string(motion.Category),
		Status:             string(motion.Status),
		CreatedAt:          motion.CreatedAt,
		VotingStarts:       motion.VotingStarts,
		VotingEnds:         motion.VotingEnds,
		RequiredMajorityBp: motion.RequiredMajorityBp,
		MinParticipationBp: motion.MinParticipationBp,
		YesWeight:          motion.YesWeight,
		NoWeight:           motion.NoWeight,
		AbstainWeight:      motion.AbstainWeight,
	}
}

func (m motionModel) toEntity() entities.Motion {
	return entities.Motion{
		MotionID:           m.ID,
		Title:              m.Title,
		Body:               m.Body,
		Proposer:           m.Proposer,
		Category:           entities.MotionCategory(m.Category),
		Status:             entities.MotionStatus(m.Status),
		CreatedAt:          m.CreatedAt,
		VotingStarts:       m.VotingStarts,
		VotingEnds:         m.VotingEnds,
		RequiredMajorityBp: m.RequiredMajorityBp,
		MinParticipationBp: m.MinParticipationBp,
		YesWeight:          m.YesWeight,
		NoWeight:           m.NoWeight,
		AbstainWeight:      m.AbstainWeight,
	}
}

type actionModel struct {
	MotionID   uint64 `gorm:"column:motion_id;primaryKey;autoIncrement:false"`
	ActionID   uint64 `gorm:"column:action_id;primaryKey;autoIncrement:false"`
	Kind       string `gorm:"column:kind"`
	SettingKey string `gorm:"column:setting_key"`
	NewValue   string `gorm:"column:new_value"`
	Recipient  string `gorm:"column:recipient"`
	Amount     uint64 `gorm:"column:amount"`
}

func (actionModel) TableName() string {
	return "governance_motion_actions"
}

func actionModelFromEntity(action entities.MotionAction) actionModel {
	return actionModel{
		MotionID:   action.MotionID,
		ActionID:   action.ActionID,
		Kind:       string(action.Kind),
		SettingKey: action.SettingKey,
		NewValue:   action.NewValue,
		Recipient:  action.Recipient,
		Amount:     action.Amount,
	}
}

func (m actionModel) toEntity() entities.MotionAction {
	return entities.MotionAction{
		MotionID:   m.MotionID,
		ActionID:   m.ActionID,
		Kind:       entities.ActionKind(m.Kind),
		SettingKey: m.SettingKey,
		NewValue:   m.NewValue,
		Recipient:  m.Recipient,
		Amount:     m.Amount,
	}
}

type ballotModel struct {
	MotionID uint64 `gorm:"column:motion_id;primaryKey;autoIncrement:false"`
	Voter    string `gorm:"column:voter;primaryKey"`
	Choice   string `gorm:"column:choice"`
	Weight   uint64 `gorm:"column:weight"`
	CastAt   uint64 `gorm:"column:cast_at"`
}

func (ballotModel) TableName() string {
	return "governance_ballots"
}

func ballotModelFromEntity(ballot entities.Ballot) ballotModel {
	return ballotModel{
		MotionID: ballot.MotionID,
		Voter:    ballot.Voter,
		Choice:   string(ballot.Choice),
		Weight:   ballot.Weight,
		CastAt:   ballot.CastAt,
	}
}

func (m ballotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		MotionID: m.MotionID,
		Voter:    m.Voter,
		Choice:   entities.BallotChoice(m.Choice),
		Weight:   m.Weight,
		CastAt:   m.CastAt,
	}
}

// counterModel holds the engine's scalar state: the next motion id and the
// motion deposit amount.
type counterModel struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value uint64 `gorm:"column:value"`
}

func (counterModel) TableName() string {
	return "governance_counters"
}

const (
	counterNextMotionID  = "next_motion_id"
	counterMotionDeposit = "motion_deposit"
)

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	Ref         string    `gorm:"column:ref"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
}

func (idempotencyModel) TableName() string {
	return "governance_idempotency_keys"
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	RetryCount   int        `gorm:"column:retry_count"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "governance_outbox"
}

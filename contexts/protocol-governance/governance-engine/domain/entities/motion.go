package entities

type MotionStatus string

const (
	MotionStatusDraft    MotionStatus = "draft"
	MotionStatusActive   MotionStatus = "active"
	MotionStatusPassed   MotionStatus = "passed"
	MotionStatusRejected MotionStatus = "rejected"
	MotionStatusExecuted MotionStatus = "executed"
)

// Terminal statuses accept no further transition.
func (s MotionStatus) Terminal() bool {
	return s == MotionStatusRejected || s == MotionStatusExecuted
}

type MotionCategory string

const (
	MotionCategoryParameter MotionCategory = "parameter"
	MotionCategoryUpgrade   MotionCategory = "upgrade"
	MotionCategoryFund      MotionCategory = "fund"
	MotionCategoryText      MotionCategory = "text"
)

func (c MotionCategory) Valid() bool {
	switch c {
	case MotionCategoryParameter, MotionCategoryUpgrade, MotionCategoryFund, MotionCategoryText:
		return true
	default:
		return false
	}
}

// MinVotingDuration is the floor, in ledger heights, for a requested voting
// window.
const MinVotingDuration uint64 = 1000

// Motion is a governance decision under vote. Voting window and threshold
// fields are snapshotted from protocol settings at creation and never change
// afterwards; only tallies and status mutate over the motion's life.
type Motion struct {
	MotionID           uint64
	Title              string
	Body               string
	Proposer           string
	Category           MotionCategory
	Status             MotionStatus
	CreatedAt          uint64
	VotingStarts       uint64
	VotingEnds         uint64
	RequiredMajorityBp uint64
	MinParticipationBp uint64
	YesWeight          uint64
	NoWeight           uint64
	AbstainWeight      uint64
}

func (m Motion) TotalWeight() uint64 {
	return m.YesWeight + m.NoWeight + m.AbstainWeight
}

// VotingOpen reports whether ballots may be cast at the given height. The
// window is half-open: casting at exactly VotingEnds is closed.
func (m Motion) VotingOpen(height uint64) bool {
	return height >= m.VotingStarts && height < m.VotingEnds
}

// AddTallyWeight credits weight to the bucket for choice.
func (m *Motion) AddTallyWeight(choice BallotChoice, weight uint64) {
	switch choice {
	case BallotChoiceYes:
		m.YesWeight += weight
	case BallotChoiceNo:
		m.NoWeight += weight
	case BallotChoiceAbstain:
		m.AbstainWeight += weight
	}
}

// RemoveTallyWeight debits weight from the bucket for choice. Callers only
// remove weight previously recorded on a live ballot, so buckets never
// underflow.
func (m *Motion) RemoveTallyWeight(choice BallotChoice, weight uint64) {
	switch choice {
	case BallotChoiceYes:
		m.YesWeight -= weight
	case BallotChoiceNo:
		m.NoWeight -= weight
	case BallotChoiceAbstain:
		m.AbstainWeight -= weight
	}
}

type ActionKind string

const (
	ActionKindSetParameter  ActionKind = "set_parameter"
	ActionKindTransferFunds ActionKind = "transfer_funds"
)

func (k ActionKind) Valid() bool {
	return k == ActionKindSetParameter || k == ActionKindTransferFunds
}

// MotionAction is one effect attached to a draft motion. Actions are
// immutable once the motion leaves draft.
type MotionAction struct {
	MotionID   uint64
	ActionID   uint64
	Kind       ActionKind
	SettingKey string
	NewValue   string
	Recipient  string
	Amount     uint64
}

type BallotChoice string

const (
	BallotChoiceYes     BallotChoice = "yes"
	BallotChoiceNo      BallotChoice = "no"
	BallotChoiceAbstain BallotChoice = "abstain"
)

func (c BallotChoice) Valid() bool {
	return c == BallotChoiceYes || c == BallotChoiceNo || c == BallotChoiceAbstain
}

// Ballot is one voter's live choice for one motion. Keyed by
// (motion, voter); a recast replaces the record wholesale.
type Ballot struct {
	MotionID uint64
	Voter    string
	Choice   BallotChoice
	Weight   uint64
	CastAt   uint64
}

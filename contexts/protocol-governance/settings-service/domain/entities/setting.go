package entities

// ValueTypeUint is the only value type the protocol registry currently
// stores. The field exists so future string/bool parameters can share the
// same table.
const ValueTypeUint = "uint"

// Registry keys for the governance protocol parameters.
const (
	KeyVotingDelay        = "voting-delay"
	KeyVotingDuration     = "voting-duration"
	KeyExecutionDelay     = "execution-delay"
	KeyMinMotionThreshold = "min-motion-threshold"
	KeyQuorumBp           = "quorum-bp"
	KeySimpleMajorityBp   = "simple-majority-bp"
)

// Setting is one protocol parameter. LastUpdated is the ledger height of the
// most recent write, zero for values never touched since bootstrap.
type Setting struct {
	Key         string
	Value       uint64
	ValueType   string
	LastUpdated uint64
	Description string
}

// Defaults returns the bootstrap parameter set in registry order. Heights
// are in blocks, thresholds in basis points.
func Defaults() []Setting {
	return []Setting{
		{Key: KeyVotingDelay, Value: 1440, ValueType: ValueTypeUint, Description: "Blocks between motion activation and the opening of its voting window."},
		{Key: KeyVotingDuration, Value: 10080, ValueType: ValueTypeUint, Description: "Default voting window length in blocks when the proposer supplies none."},
		{Key: KeyExecutionDelay, Value: 1440, ValueType: ValueTypeUint, Description: "Blocks after voting closes before a passed motion becomes executable."},
		{Key: KeyMinMotionThreshold, Value: 100, ValueType: ValueTypeUint, Description: "Minimum token balance required to create a motion."},
		{Key: KeyQuorumBp, Value: 1000, ValueType: ValueTypeUint, Description: "Minimum participation, in basis points of the participation ceiling."},
		{Key: KeySimpleMajorityBp, Value: 5000, ValueType: ValueTypeUint, Description: "Approval threshold, in basis points of all cast weight."},
	}
}

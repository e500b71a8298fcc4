package entities

// ParticipationCeiling is the fixed denominator for the participation ratio:
// the maximum voting power the protocol was sized for, in weight units.
// Quorum is measured against this constant, not against live circulating
// supply, so the meaning of a basis-point floor does not drift as supply
// changes.
const ParticipationCeiling uint64 = 1_000_000

// BasisPointScale converts ratios to basis points (1/10000).
const BasisPointScale uint64 = 10_000

// Outcome is the threshold evaluation of a motion's tallies.
type Outcome struct {
	TotalWeight     uint64
	ApprovalBp      uint64
	ParticipationBp uint64
	Passed          bool
}

// EvaluateOutcome computes participation and approval ratios from the
// motion's tally snapshot and compares them against the thresholds fixed at
// creation. All arithmetic is integer with truncating division, and both
// comparisons are inclusive: landing exactly on a threshold passes it.
func EvaluateOutcome(m Motion) Outcome {
	total := m.TotalWeight()

	var approvalBp uint64
	if total > 0 {
		approvalBp = m.YesWeight * BasisPointScale / total
	}
	participationBp := total * BasisPointScale / ParticipationCeiling

	return Outcome{
		TotalWeight:     total,
		ApprovalBp:      approvalBp,
		ParticipationBp: participationBp,
		Passed:          participationBp >= m.MinParticipationBp && approvalBp >= m.RequiredMajorityBp,
	}
}

package entities

import "testing"

func TestEvaluateOutcome(t *testing.T) {
	cases := []struct {
		name            string
		motion          Motion
		approvalBp      uint64
		participationBp uint64
		passed          bool
	}{
		{
			name:   "no ballots fails nonzero thresholds",
			motion: Motion{RequiredMajorityBp: 5000, MinParticipationBp: 1000},
		},
		{
			name: "exact thresholds pass inclusively",
			motion: Motion{
				YesWeight:          50_000,
				NoWeight:           50_000,
				RequiredMajorityBp: 5000,
				MinParticipationBp: 1000,
			},
			approvalBp:      5000,
			participationBp: 1000,
			passed:          true,
		},
		{
			name: "abstain dilutes approval but counts toward participation",
			motion: Motion{
				YesWeight:          60_000,
				NoWeight:           20_000,
				AbstainWeight:      40_000,
				RequiredMajorityBp: 5000,
				MinParticipationBp: 1000,
			},
			approvalBp:      5000,
			participationBp: 1200,
			passed:          true,
		},
		{
			name: "sixty-forty split approves at 6000 bp",
			motion: Motion{
				YesWeight:          600,
				NoWeight:           400,
				RequiredMajorityBp: 5000,
				MinParticipationBp: 10,
			},
			approvalBp:      6000,
			participationBp: 10,
			passed:          true,
		},
		{
			name: "truncating division lands under quorum",
			motion: Motion{
				YesWeight:          99_999,
				RequiredMajorityBp: 5000,
				MinParticipationBp: 1000,
			},
			approvalBp:      10_000,
			participationBp: 999,
		},
		{
			name: "majority shortfall rejects despite quorum",
			motion: Motion{
				YesWeight:          40_000,
				NoWeight:           80_000,
				RequiredMajorityBp: 5000,
				MinParticipationBp: 1000,
			},
			approvalBp:      3333,
			participationBp: 1200,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := EvaluateOutcome(tc.motion)
			if outcome.ApprovalBp != tc.approvalBp {
				t.Fatalf("approval: got %d want %d", outcome.ApprovalBp, tc.approvalBp)
			}
			if outcome.ParticipationBp != tc.participationBp {
				t.Fatalf("participation: got %d want %d", outcome.ParticipationBp, tc.participationBp)
			}
			if outcome.Passed != tc.passed {
				t.Fatalf("passed: got %v want %v", outcome.Passed, tc.passed)
			}
		})
	}
}

func TestTallyWeightMutators(t *testing.T) {
	var m Motion
	m.AddTallyWeight(BallotChoiceYes, 100)
	m.AddTallyWeight(BallotChoiceAbstain, 40)
	if m.TotalWeight() != 140 {
		t.Fatalf("expected total 140, got %d", m.TotalWeight())
	}
	m.RemoveTallyWeight(BallotChoiceYes, 100)
	m.AddTallyWeight(BallotChoiceNo, 60)
	if m.YesWeight != 0 || m.NoWeight != 60 || m.AbstainWeight != 40 {
		t.Fatalf("unexpected buckets: yes=%d no=%d abstain=%d", m.YesWeight, m.NoWeight, m.AbstainWeight)
	}
}

func TestVotingOpenWindowIsHalfOpen(t *testing.T) {
	m := Motion{VotingStarts: 100, VotingEnds: 200}
	if m.VotingOpen(99) {
		t.Fatalf("window should be closed before start")
	}
	if !m.VotingOpen(100) {
		t.Fatalf("window should be open at start height")
	}
	if m.VotingOpen(200) {
		t.Fatalf("window should be closed at end height")
	}
}

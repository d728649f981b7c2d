package game

import "testing"

func TestTallyVotesMajority(t *testing.T) {
	votes := []DistributionVote{
		{PlayerID: 1, Outcome: OutcomeFull, Weight: 4},
		{PlayerID: 2, Outcome: OutcomeRetained, Weight: 3},
	}
	if got := TallyVotes(votes); got != OutcomeFull {
		t.Fatalf("got %s want %s", got, OutcomeFull)
	}
}

func TestTallyVotesTieFallsToPriority(t *testing.T) {
	votes := []DistributionVote{
		{PlayerID: 1, Outcome: OutcomeFull, Weight: 3},
		{PlayerID: 2, Outcome: OutcomeFiftyFifty, Weight: 3},
	}
	if got := TallyVotes(votes); got != OutcomeFiftyFifty {
		t.Fatalf("ties must prefer the more conservative outcome, got %s", got)
	}
	votes = append(votes, DistributionVote{PlayerID: 3, Outcome: OutcomeRetained, Weight: 3})
	if got := TallyVotes(votes); got != OutcomeRetained {
		t.Fatalf("three-way tie must retain, got %s", got)
	}
}

func TestTallyVotesNoVotesRetains(t *testing.T) {
	if got := TallyVotes(nil); got != OutcomeRetained {
		t.Fatalf("got %s want %s", got, OutcomeRetained)
	}
}

func TestTallyVotesIgnoresInvalidOutcome(t *testing.T) {
	votes := []DistributionVote{
		{PlayerID: 1, Outcome: DistributionOutcome("BOGUS"), Weight: 9},
		{PlayerID: 2, Outcome: OutcomeFull, Weight: 1},
	}
	if got := TallyVotes(votes); got != OutcomeFull {
		t.Fatalf("got %s want %s", got, OutcomeFull)
	}
}

func splitShares(playerID int64, playerShares, openMarket int) []ShareHolding {
	out := make([]ShareHolding, 0, SharesPerCompany)
	for i := 0; i < playerShares; i++ {
		out = append(out, ShareHolding{Location: LocationPlayer, PlayerID: playerID})
	}
	for i := 0; i < openMarket; i++ {
		out = append(out, ShareHolding{Location: LocationOpenMarket})
	}
	for len(out) < SharesPerCompany {
		out = append(out, ShareHolding{Location: LocationIPO})
	}
	return out
}

func TestDistributeFiftyFifty(t *testing.T) {
	// 1000 revenue, 6 player shares and 4 open-market shares.
	shares := splitShares(7, 6, 4)
	d := Distribute(1000, OutcomeFiftyFifty, shares)
	if d.DividendPerShare != 50 {
		t.Fatalf("per share=%d want 50", d.DividendPerShare)
	}
	if d.DividendTotal != 500 {
		t.Fatalf("total=%d want 500", d.DividendTotal)
	}
	if d.Retained != 500 {
		t.Fatalf("retained=%d want 500", d.Retained)
	}
	if got := d.Payouts[7]; got != 300 {
		t.Fatalf("player payout=%d want 300", got)
	}
}

func TestDistributeFiftyFiftyTwoHolders(t *testing.T) {
	// 1000 revenue, all ten shares player-held, split 6/4 between two actors.
	shares := make([]ShareHolding, 0, SharesPerCompany)
	for i := 0; i < 6; i++ {
		shares = append(shares, ShareHolding{Location: LocationPlayer, PlayerID: 1})
	}
	for i := 0; i < 4; i++ {
		shares = append(shares, ShareHolding{Location: LocationPlayer, PlayerID: 2})
	}
	d := Distribute(1000, OutcomeFiftyFifty, shares)
	if d.Payouts[1] != 300 || d.Payouts[2] != 200 {
		t.Fatalf("payouts=%v want 300/200", d.Payouts)
	}
	if d.Retained != 500 {
		t.Fatalf("retained=%d want 500", d.Retained)
	}
}

func TestDistributeFull(t *testing.T) {
	shares := splitShares(7, 6, 4)
	d := Distribute(1000, OutcomeFull, shares)
	if d.DividendPerShare != 100 {
		t.Fatalf("per share=%d want 100", d.DividendPerShare)
	}
	if d.Retained != 0 {
		t.Fatalf("retained=%d want 0", d.Retained)
	}
	if got := d.Payouts[7]; got != 600 {
		t.Fatalf("player payout=%d want 600", got)
	}
}

func TestDistributeRetained(t *testing.T) {
	shares := splitShares(7, 6, 4)
	d := Distribute(1000, OutcomeRetained, shares)
	if d.Retained != 1000 || d.DividendTotal != 0 {
		t.Fatalf("retained=%d total=%d, want 1000/0", d.Retained, d.DividendTotal)
	}
	if len(d.Payouts) != 0 {
		t.Fatalf("expected no payouts, got %v", d.Payouts)
	}
}

func TestDistributeIPOSharesNeverPay(t *testing.T) {
	// All ten shares still in the IPO rotation.
	shares := splitShares(0, 0, 0)
	d := Distribute(1000, OutcomeFull, shares)
	if d.DividendPerShare != 0 {
		t.Fatalf("per share=%d want 0 with no eligible shares", d.DividendPerShare)
	}
	if len(d.Payouts) != 0 {
		t.Fatalf("expected no payouts, got %v", d.Payouts)
	}
}

func TestDistributeFloorsDivisions(t *testing.T) {
	shares := splitShares(7, 10, 0)
	d := Distribute(999, OutcomeFiftyFifty, shares)
	// 999/2 = 499, 499/10 = 49 per share, 490 total, 509 retained.
	if d.DividendPerShare != 49 {
		t.Fatalf("per share=%d want 49", d.DividendPerShare)
	}
	if d.DividendTotal != 490 {
		t.Fatalf("total=%d want 490", d.DividendTotal)
	}
	if d.Retained != 509 {
		t.Fatalf("retained=%d want 509", d.Retained)
	}
	if d.DividendTotal+d.Retained != 999 {
		t.Fatalf("distribution must conserve revenue")
	}
}

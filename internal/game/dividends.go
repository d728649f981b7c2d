package game

// DistributionOutcome is a shareholder vote option for a company's
// turn revenue.
type DistributionOutcome string

const (
	OutcomeRetained   DistributionOutcome = "RETAINED"
	OutcomeFiftyFifty DistributionOutcome = "DIVIDEND_FIFTY_FIFTY"
	OutcomeFull       DistributionOutcome = "DIVIDEND_FULL"
)

func (o DistributionOutcome) Valid() bool {
	switch o {
	case OutcomeRetained, OutcomeFiftyFifty, OutcomeFull:
		return true
	}
	return false
}

// outcomePriority breaks equal-weight ties: a split board keeps the cash.
var outcomePriority = []DistributionOutcome{OutcomeRetained, OutcomeFiftyFifty, OutcomeFull}

// DistributionVote is one shareholder's weighted choice.
type DistributionVote struct {
	PlayerID int64
	Outcome  DistributionOutcome
	Weight   int64
}

// ShareHolding is one share of a company's 10-share rotation.
type ShareHolding struct {
	Location ShareLocation
	PlayerID int64 // set only for PLAYER location
}

// Distribution is the fully resolved dividend/retention split.
type Distribution struct {
	Outcome          DistributionOutcome
	DividendPerShare int64
	DividendTotal    int64
	Retained         int64
	Payouts          map[int64]int64 // playerID -> amount
}

// TallyVotes picks the outcome with strictly greatest total weight.
// Ties fall back to the fixed priority order; no votes means RETAINED.
func TallyVotes(votes []DistributionVote) DistributionOutcome {
	weights := make(map[DistributionOutcome]int64)
	for _, v := range votes {
		if v.Outcome.Valid() {
			weights[v.Outcome] += v.Weight
		}
	}
	best := OutcomeRetained
	bestWeight := int64(-1)
	for _, o := range outcomePriority {
		if w := weights[o]; w > bestWeight {
			best = o
			bestWeight = w
		}
	}
	return best
}

// Distribute splits a company's turn revenue according to the voted
// outcome. IPO-held shares never receive dividends; open-market payouts
// accrue to no actor. Pure function of its inputs.
func Distribute(revenue int64, outcome DistributionOutcome, shares []ShareHolding) Distribution {
	d := Distribution{Outcome: outcome, Payouts: make(map[int64]int64)}

	var eligible int64
	for _, s := range shares {
		if s.Location == LocationPlayer || s.Location == LocationOpenMarket {
			eligible++
		}
	}

	switch outcome {
	case OutcomeFull:
		if eligible > 0 {
			d.DividendPerShare = revenue / eligible
		}
		d.DividendTotal = revenue
		d.Retained = 0
	case OutcomeFiftyFifty:
		d.DividendPerShare = (revenue / 2) / SharesPerCompany
		d.DividendTotal = d.DividendPerShare * eligible
		d.Retained = revenue - d.DividendTotal
	default:
		d.DividendTotal = 0
		d.Retained = revenue
	}

	if d.DividendPerShare > 0 {
		for _, s := range shares {
			if s.Location == LocationPlayer {
				d.Payouts[s.PlayerID] += d.DividendPerShare
			}
		}
	}
	return d
}

package game

import (
	mathrand "math/rand"
	"testing"
)

func TestResearchStage(t *testing.T) {
	tests := []struct {
		marker int
		want   int
	}{
		{marker: 0, want: 1},
		{marker: 5, want: 1},
		{marker: 6, want: 2},
		{marker: 10, want: 2},
		{marker: 11, want: 3},
		{marker: 15, want: 3},
		{marker: 16, want: 4},
		{marker: 40, want: 4},
	}
	for _, tc := range tests {
		if got := ResearchStage(tc.marker); got != tc.want {
			t.Fatalf("marker=%d got=%d want=%d", tc.marker, got, tc.want)
		}
	}
}

func TestFactoryCostFreshPlot(t *testing.T) {
	// Size II plant on two resources priced 30 and 20 on a fresh plot.
	got := FactoryCost([]int64{30, 20}, SizeII, true)
	if got != 200 {
		t.Fatalf("got %d want 200", got)
	}
}

func TestFactoryCostUpgradeWaivesPlotFee(t *testing.T) {
	got := FactoryCost([]int64{30, 20}, SizeII, false)
	if got != 100 {
		t.Fatalf("got %d want 100", got)
	}
}

func TestValidateFactoryOrder(t *testing.T) {
	if err := ValidateFactoryOrder([]string{"STEEL"}, SizeI, 1); err != nil {
		t.Fatalf("expected valid order: %v", err)
	}
	if err := ValidateFactoryOrder([]string{"STEEL"}, SizeIII, 2); err == nil {
		t.Fatalf("expected stage gate to reject size III at stage 2")
	}
	if err := ValidateFactoryOrder(nil, SizeI, 1); err == nil {
		t.Fatalf("expected empty blueprint to fail")
	}
	if err := ValidateFactoryOrder([]string{"A", "B", "C"}, SizeI, 4); err == nil {
		t.Fatalf("expected oversized blueprint to fail")
	}
	if err := ValidateFactoryOrder([]string{"A", "B"}, SizeI, 4); err != nil {
		t.Fatalf("size I allows two blueprint slots: %v", err)
	}
	if err := ValidateFactoryOrder([]string{"A"}, FactorySize(0), 4); err == nil {
		t.Fatalf("expected size 0 to fail")
	}
	if err := ValidateFactoryOrder([]string{"A"}, FactorySize(5), 4); err == nil {
		t.Fatalf("expected size 5 to fail")
	}
}

func TestRunProductionDemandLimited(t *testing.T) {
	// Size II ceiling is 6 customers, pool only has 4 left.
	got := RunProduction(SizeII, 4, 40, []int64{10, 20}, 2, 15)
	if got.CustomersServed != 4 {
		t.Fatalf("served=%d want 4", got.CustomersServed)
	}
	if got.Revenue != 4*(40+30) {
		t.Fatalf("revenue=%d want %d", got.Revenue, 4*(40+30))
	}
	if got.Cost != 30 {
		t.Fatalf("cost=%d want 30", got.Cost)
	}
	if got.Profit != got.Revenue-got.Cost {
		t.Fatalf("profit=%d want %d", got.Profit, got.Revenue-got.Cost)
	}
}

func TestRunProductionCeilingLimited(t *testing.T) {
	got := RunProduction(SizeI, 100, 25, []int64{5}, 1, 10)
	if got.CustomersServed != 3 {
		t.Fatalf("served=%d want 3", got.CustomersServed)
	}
}

func TestRunProductionEmptyPool(t *testing.T) {
	got := RunProduction(SizeIV, 0, 25, []int64{5}, 4, 10)
	if got.CustomersServed != 0 || got.Revenue != 0 {
		t.Fatalf("served=%d revenue=%d, want zero production", got.CustomersServed, got.Revenue)
	}
	if got.Cost != 40 {
		t.Fatalf("salaries are still owed when idle, cost=%d want 40", got.Cost)
	}
}

func TestMarketingCost(t *testing.T) {
	tests := []struct {
		tier MarketingTier
		slot int
		want int64
	}{
		{tier: TierI, slot: 1, want: 100},
		{tier: TierII, slot: 1, want: 200},
		{tier: TierIII, slot: 1, want: 300},
		{tier: TierI, slot: 2, want: 200},
		{tier: TierIII, slot: 3, want: 500},
	}
	for _, tc := range tests {
		got, err := MarketingCost(tc.tier, tc.slot)
		if err != nil {
			t.Fatalf("tier=%d slot=%d: %v", tc.tier, tc.slot, err)
		}
		if got != tc.want {
			t.Fatalf("tier=%d slot=%d got=%d want=%d", tc.tier, tc.slot, got, tc.want)
		}
	}
	if _, err := MarketingCost(MarketingTier(4), 1); err == nil {
		t.Fatalf("expected tier 4 to fail")
	}
	if _, err := MarketingCost(TierI, 0); err == nil {
		t.Fatalf("expected slot 0 to fail")
	}
}

func TestResearchCostByStage(t *testing.T) {
	if got := ResearchCost(2); got != 200 {
		t.Fatalf("stage 2 research got=%d want 200", got)
	}
	if got := ResearchCost(4); got != 400 {
		t.Fatalf("stage 4 research got=%d want 400", got)
	}
}

func TestMilestonesCrossed(t *testing.T) {
	tests := []struct {
		before, after, want int
	}{
		{before: 4, after: 5, want: 0},
		{before: 5, after: 6, want: 1},
		{before: 6, after: 8, want: 0},
		{before: 5, after: 11, want: 2},
		{before: 0, after: 16, want: 3},
		{before: 16, after: 20, want: 0},
	}
	for _, tc := range tests {
		if got := MilestonesCrossed(tc.before, tc.after); got != tc.want {
			t.Fatalf("before=%d after=%d got=%d want=%d", tc.before, tc.after, got, tc.want)
		}
	}
}

func TestRollResearchProgressRange(t *testing.T) {
	rng := mathrand.New(mathrand.NewSource(1))
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		got := RollResearchProgress(rng)
		if got < 0 || got > 2 {
			t.Fatalf("roll %d outside 0..2", got)
		}
		seen[got] = true
	}
	for v := 0; v <= 2; v++ {
		if !seen[v] {
			t.Fatalf("value %d never rolled in 200 samples", v)
		}
	}
}

package game

import (
	"fmt"
	mathrand "math/rand"
)

// ResearchStage maps a sector's research marker to its coarse stage 1..4.
func ResearchStage(marker int) int {
	switch {
	case marker <= 5:
		return 1
	case marker <= 10:
		return 2
	case marker <= 15:
		return 3
	default:
		return 4
	}
}

// StageAllowsSize reports whether a factory size class is legal at a stage.
// Stage N admits size classes up to N.
func StageAllowsSize(stage int, size FactorySize) bool {
	return int(size) <= stage
}

// FactoryCost prices a construction order: the sum of the blueprint's
// current resource prices scaled by the size number, plus the plot fee
// for a fresh slot. Upgrades in place waive the fee.
func FactoryCost(blueprintPrices []int64, size FactorySize, freshPlot bool) int64 {
	var sum int64
	for _, p := range blueprintPrices {
		sum += p
	}
	cost := sum * int64(size)
	if freshPlot {
		cost += PlotFee
	}
	return cost
}

// ValidateFactoryOrder checks blueprint-size and stage legality before
// any cost is computed. One blueprint slot beyond the size number is
// reserved for the sector's automatic resource.
func ValidateFactoryOrder(blueprint []string, size FactorySize, stage int) error {
	if !size.Valid() {
		return fmt.Errorf("%w: size %d outside I..IV", ErrInvalidBlueprint, size)
	}
	if !StageAllowsSize(stage, size) {
		return fmt.Errorf("%w: size %d requires research stage %d, sector is at stage %d", ErrInvalidBlueprint, size, int(size), stage)
	}
	if len(blueprint) == 0 {
		return fmt.Errorf("%w: blueprint needs at least one resource", ErrInvalidBlueprint)
	}
	if max := int(size) + 1; len(blueprint) > max {
		return fmt.Errorf("%w: blueprint has %d resources, size %d allows at most %d", ErrInvalidBlueprint, len(blueprint), size, max)
	}
	return nil
}

// Production is one factory's per-turn operating record.
type Production struct {
	CustomersServed int64
	Revenue         int64
	Cost            int64
	Profit          int64
}

// RunProduction computes one operational factory's turn. Customers served
// are drawn from the sector demand pool up to the size ceiling.
func RunProduction(size FactorySize, demandAvailable, unitPrice int64, blueprintPrices []int64, workers, salary int64) Production {
	served := size.CustomerCeiling()
	if demandAvailable < served {
		served = demandAvailable
	}
	if served < 0 {
		served = 0
	}
	var resourceSum int64
	for _, p := range blueprintPrices {
		resourceSum += p
	}
	revenue := served * (unitPrice + resourceSum)
	cost := workers * salary
	return Production{
		CustomersServed: served,
		Revenue:         revenue,
		Cost:            cost,
		Profit:          revenue - cost,
	}
}

// MarketingCost prices a campaign: base cost by tier plus a penalty that
// climbs with each slot the company already fills this turn.
func MarketingCost(tier MarketingTier, slot int) (int64, error) {
	if !tier.Valid() {
		return 0, fmt.Errorf("%w: marketing tier %d outside I..III", ErrInvalidBlueprint, tier)
	}
	if slot < 1 || slot > 5 {
		return 0, fmt.Errorf("%w: campaign slot %d outside 1..5", ErrInvalidBlueprint, slot)
	}
	base := int64(tier) * 100
	penalty := int64(slot-1) * 100
	return base + penalty, nil
}

// BrandBonus granted by a campaign equals its tier number.
func BrandBonus(tier MarketingTier) int64 {
	return int64(tier)
}

// CampaignWorkers is the worker commitment for a campaign tier; the
// workers come back to the company pool when the campaign expires.
func CampaignWorkers(tier MarketingTier) int64 {
	return int64(tier)
}

// ResearchCost is a step function of the sector's research stage.
func ResearchCost(stage int) int64 {
	return int64(stage) * 100
}

// RollResearchProgress samples the progress gain of one research order,
// a uniform integer in 0..2.
func RollResearchProgress(rng *mathrand.Rand) int {
	return rng.Intn(3)
}

// researchMilestones are the markers at which a sector crosses into a
// new stage; each crossing beyond stage 1 consumes a resource unit.
var researchMilestones = []int{6, 11, 16}

// MilestonesCrossed counts stage boundaries passed when the marker moves
// from before to after.
func MilestonesCrossed(before, after int) int {
	n := 0
	for _, m := range researchMilestones {
		if before < m && after >= m {
			n++
		}
	}
	return n
}

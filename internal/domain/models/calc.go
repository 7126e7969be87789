package models

import (
	"fmt"
	"math"
	"sort"
)

// MoneyEpsilon absorbs float residue when money values are compared or
// subtracted. Amounts are stored with at most two decimals.
const MoneyEpsilon = 1e-6

// nonNegative clamps a money result to zero, including residue just above it.
func nonNegative(v float64) float64 {
	if v < MoneyEpsilon {
		return 0
	}
	return v
}

// ComputeNetPayable applies fuel and the advance cap to a driver's gross
// earnings. Outstanding advances are only deducted from a positive balance,
// and neither the payable nor the remaining advance can go below zero.
func ComputeNetPayable(gross, fuel, outstanding float64) DriverSettlement {
	available := gross - fuel

	deduction := 0.0
	if available > 0 {
		deduction = math.Min(outstanding, available)
	}
	if deduction < 0 {
		deduction = 0
	}

	return DriverSettlement{
		GrossEarnings:           gross,
		FuelCost:                fuel,
		AdvanceDeducted:         deduction,
		NetPayable:              nonNegative(available - deduction),
		RemainingAdvanceBalance: nonNegative(outstanding - deduction),
	}
}

// DeductionCap is min(outstanding, max(0, gross-fuel)).
func DeductionCap(gross, fuel, outstanding float64) float64 {
	return nonNegative(math.Min(outstanding, gross-fuel))
}

// PayableAfter is max(0, gross-fuel-applied) with residue below a cent fraction dropped.
func PayableAfter(gross, fuel, applied float64) float64 {
	return nonNegative(gross - fuel - applied)
}

// SelectAdvancesFIFO walks advances oldest first and consumes whole advances
// while the next one still fits in the remaining limit. It stops at the first
// advance that does not fit; partial deduction never happens.
func SelectAdvancesFIFO(advances []Advance, limit float64) (ids []int64, applied float64) {
	ordered := make([]Advance, 0, len(advances))
	for _, a := range advances {
		if !a.IsDeducted {
			ordered = append(ordered, a)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].IssuedAt.Equal(ordered[j].IssuedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].IssuedAt.Before(ordered[j].IssuedAt)
	})

	remaining := limit
	for _, a := range ordered {
		if remaining < MoneyEpsilon || a.Amount > remaining+MoneyEpsilon {
			break
		}
		ids = append(ids, a.ID)
		applied += a.Amount
		remaining -= a.Amount
	}
	return ids, applied
}

// SumOutstanding totals the undeducted advances.
func SumOutstanding(advances []Advance) float64 {
	total := 0.0
	for _, a := range advances {
		if !a.IsDeducted {
			total += a.Amount
		}
	}
	return total
}

// SummarizeTrips folds trips into the owner's profit summary.
func SummarizeTrips(trips []Trip) ProfitSummary {
	var s ProfitSummary
	for _, t := range trips {
		s.GrossRevenue += t.OwnerGross()
		s.DriverEarnings += t.DriverEarning()
		s.LabourCost += t.LabourCost()
		s.TotalBags += t.BagCount
		s.TripCount++
	}
	return FinishProfitSummary(s)
}

// FinishProfitSummary derives net profit and margin from the three sums.
func FinishProfitSummary(s ProfitSummary) ProfitSummary {
	s.NetProfit = s.GrossRevenue - s.DriverEarnings - s.LabourCost
	if s.GrossRevenue > 0 {
		s.ProfitMargin = s.NetProfit / s.GrossRevenue * 100
	} else {
		s.ProfitMargin = 0
	}
	return s
}

// SumDriverEarnings totals driverEarning over trips.
func SumDriverEarnings(trips []Trip) float64 {
	total := 0.0
	for _, t := range trips {
		total += t.DriverEarning()
	}
	return total
}

func SumFuel(entries []FuelEntry) float64 {
	total := 0.0
	for _, f := range entries {
		total += f.Amount
	}
	return total
}

// ResolveRate returns the rate of the first active slab, by ascending
// MinDistance, whose [min, max) band contains distance.
func ResolveRate(slabs []DriverRateSlab, distance float64) (float64, bool) {
	active := make([]DriverRateSlab, 0, len(slabs))
	for _, s := range slabs {
		if s.IsActive {
			active = append(active, s)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].MinDistance < active[j].MinDistance })

	for _, s := range active {
		if s.Contains(distance) {
			return s.RatePerBag, true
		}
	}
	return 0, false
}

// ValidateSlabs checks a replacement slab set: bands must be well formed,
// non-overlapping and only the last band may be unbounded.
func ValidateSlabs(slabs []DriverRateSlab) error {
	if len(slabs) == 0 {
		return fmt.Errorf("at least one slab is required")
	}
	ordered := append([]DriverRateSlab(nil), slabs...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].MinDistance < ordered[j].MinDistance })

	for i, s := range ordered {
		if s.MinDistance < 0 {
			return fmt.Errorf("slab %d: minDistance must not be negative", i+1)
		}
		if s.RatePerBag < 0 {
			return fmt.Errorf("slab %d: ratePerBag must not be negative", i+1)
		}
		if s.MaxDistance != nil && *s.MaxDistance <= s.MinDistance {
			return fmt.Errorf("slab %d: maxDistance must be greater than minDistance", i+1)
		}
		if i == 0 {
			continue
		}
		prev := ordered[i-1]
		if prev.MaxDistance == nil {
			return fmt.Errorf("slab %d: only the last slab may be unbounded", i)
		}
		if s.MinDistance < *prev.MaxDistance {
			return fmt.Errorf("slab %d overlaps slab %d", i+1, i)
		}
	}
	return nil
}

// DefaultLabourRule picks the default active rule, else the first active
// rule. ok is false when no active rule exists and a zero cost applies.
func DefaultLabourRule(rules []LabourCostRule) (LabourCostRule, bool) {
	for _, r := range rules {
		if r.IsDefault && r.IsActive {
			return r, true
		}
	}
	for _, r := range rules {
		if r.IsActive {
			return r, true
		}
	}
	return LabourCostRule{}, false
}

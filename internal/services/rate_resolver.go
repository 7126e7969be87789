package services

import (
	"context"
	"math"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// RateSource is the rate configuration the resolver reads.
type RateSource interface {
	ListActiveSlabs(ctx context.Context, ownerID int64) ([]models.DriverRateSlab, error)
	ListActiveLabourRules(ctx context.Context, ownerID int64) ([]models.LabourCostRule, error)
}

// RateResolver answers "what is the per-bag rate right now" against the
// owner's active configuration. It never writes.
type RateResolver struct {
	Rates RateSource
}

// ResolveDriverRate returns the driver rate per bag for a distance. Bands are
// [min, max), so a distance equal to a band's max falls in the next band.
func (r RateResolver) ResolveDriverRate(ctx context.Context, ownerID int64, distanceKm float64) (float64, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return 0, domain.ValidationError{Field: "distance_km", Msg: "distance must be a non-negative number"}
	}
	slabs, err := r.Rates.ListActiveSlabs(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	rate, ok := models.ResolveRate(slabs, distanceKm)
	if !ok {
		return 0, domain.NoRateConfiguredError{DistanceKm: distanceKm}
	}
	return rate, nil
}

// ResolveLabourRule returns the default labour rule; ok is false when the
// owner has no active rule.
func (r RateResolver) ResolveLabourRule(ctx context.Context, ownerID int64) (models.LabourCostRule, bool, error) {
	rules, err := r.Rates.ListActiveLabourRules(ctx, ownerID)
	if err != nil {
		return models.LabourCostRule{}, false, err
	}
	rule, ok := models.DefaultLabourRule(rules)
	return rule, ok, nil
}

// ResolveLabourCost returns the default labour cost per bag, or 0 when no
// active rule exists.
func (r RateResolver) ResolveLabourCost(ctx context.Context, ownerID int64) (float64, error) {
	rule, ok, err := r.ResolveLabourRule(ctx, ownerID)
	if err != nil || !ok {
		return 0, err
	}
	return rule.CostPerBag, nil
}

package services

import (
	"context"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// OwnerProfitCalculator folds trips into the owner's P&L. Fuel and advances
// belong to the driver's side of the ledger and are not read here.
type OwnerProfitCalculator struct {
	Trips TripReader
}

func (c OwnerProfitCalculator) CalculateProfitSummary(ctx context.Context, ownerID int64, rng models.DateRange) (models.ProfitSummary, error) {
	if !rng.Valid() {
		return models.ProfitSummary{}, domain.ValidationError{Field: "range", Msg: "start must be before end"}
	}
	if c.Trips == nil {
		return models.ProfitSummary{}, domain.InternalError{Msg: "trip store not configured"}
	}
	trips, err := c.Trips.ListByRange(ctx, ownerID, rng)
	if err != nil {
		return models.ProfitSummary{}, err
	}
	return models.SummarizeTrips(trips), nil
}

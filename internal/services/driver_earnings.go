package services

import (
	"context"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// TripReader lists trips by half-open date range.
type TripReader interface {
	ListByRange(ctx context.Context, ownerID int64, rng models.DateRange) ([]models.Trip, error)
	ListByDriverRange(ctx context.Context, ownerID, driverID int64, rng models.DateRange) ([]models.Trip, error)
}

type FuelReader interface {
	ListByDriverRange(ctx context.Context, ownerID, driverID int64, rng models.DateRange) ([]models.FuelEntry, error)
}

type AdvanceReader interface {
	ListOutstanding(ctx context.Context, ownerID, driverID int64) ([]models.Advance, error)
}

// DriverEarningsCalculator previews what a driver is owed for a period. It is
// read-only: advances are never marked deducted here.
type DriverEarningsCalculator struct {
	Trips    TripReader
	Fuel     FuelReader    // optional; nil counts as no fuel
	Advances AdvanceReader // optional; nil counts as no outstanding advance
}

func (c DriverEarningsCalculator) CalculateNetPayable(ctx context.Context, ownerID, driverID int64, rng models.DateRange) (models.DriverSettlement, error) {
	if !rng.Valid() {
		return models.DriverSettlement{}, domain.ValidationError{Field: "range", Msg: "start must be before end"}
	}
	if c.Trips == nil {
		return models.DriverSettlement{}, domain.InternalError{Msg: "trip store not configured"}
	}

	trips, err := c.Trips.ListByDriverRange(ctx, ownerID, driverID, rng)
	if err != nil {
		return models.DriverSettlement{}, err
	}
	gross := models.SumDriverEarnings(trips)

	fuel := 0.0
	if c.Fuel != nil {
		entries, err := c.Fuel.ListByDriverRange(ctx, ownerID, driverID, rng)
		if err != nil {
			return models.DriverSettlement{}, err
		}
		fuel = models.SumFuel(entries)
	}

	outstanding := 0.0
	if c.Advances != nil {
		advances, err := c.Advances.ListOutstanding(ctx, ownerID, driverID)
		if err != nil {
			return models.DriverSettlement{}, err
		}
		outstanding = models.SumOutstanding(advances)
	}

	s := models.ComputeNetPayable(gross, fuel, outstanding)
	s.DriverID = driverID
	return s, nil
}

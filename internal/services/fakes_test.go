package services

import (
	"context"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

type fakeTrips struct {
	trips []models.Trip
	err   error
}

func (f *fakeTrips) ListByRange(_ context.Context, ownerID int64, rng models.DateRange) ([]models.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Trip{}
	for _, t := range f.trips {
		if t.OwnerID == ownerID && rng.Contains(t.TripDate) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTrips) ListByDriverRange(ctx context.Context, ownerID, driverID int64, rng models.DateRange) ([]models.Trip, error) {
	all, err := f.ListByRange(ctx, ownerID, rng)
	if err != nil {
		return nil, err
	}
	out := []models.Trip{}
	for _, t := range all {
		if t.DriverID == driverID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeFuel struct {
	entries []models.FuelEntry
}

func (f *fakeFuel) ListByDriverRange(_ context.Context, ownerID, driverID int64, rng models.DateRange) ([]models.FuelEntry, error) {
	out := []models.FuelEntry{}
	for _, e := range f.entries {
		if e.OwnerID == ownerID && e.DriverID == driverID && rng.Contains(e.EntryDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAdvances struct {
	advances []models.Advance
}

func (f *fakeAdvances) ListOutstanding(_ context.Context, ownerID, driverID int64) ([]models.Advance, error) {
	out := []models.Advance{}
	for _, a := range f.advances {
		if a.OwnerID == ownerID && a.DriverID == driverID && !a.IsDeducted {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeRates struct {
	slabs []models.DriverRateSlab
	rules []models.LabourCostRule
}

func (f fakeRates) ListActiveSlabs(context.Context, int64) ([]models.DriverRateSlab, error) {
	return f.slabs, nil
}

func (f fakeRates) ListActiveLabourRules(context.Context, int64) ([]models.LabourCostRule, error) {
	return f.rules, nil
}

type fakeDrivers map[int64]models.Driver

func (f fakeDrivers) GetByID(_ context.Context, ownerID, id int64) (models.Driver, error) {
	d, ok := f[id]
	if !ok || d.OwnerID != ownerID {
		return models.Driver{}, domain.NotFoundError{Resource: "driver", ID: id}
	}
	return d, nil
}

func ptr(v float64) *float64 { return &v }

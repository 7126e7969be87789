package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

func TestCalculateProfitSummary(t *testing.T) {
	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	calc := OwnerProfitCalculator{Trips: &fakeTrips{trips: []models.Trip{
		{OwnerID: 1, DriverID: 7, BagCount: 100, SnapshotDriverRate: 5, SnapshotCompanyRate: 10, SnapshotLabourCostPerBag: 1, TripDate: day},
		{OwnerID: 1, DriverID: 8, BagCount: 50, SnapshotDriverRate: 6, SnapshotCompanyRate: 12, SnapshotLabourCostPerBag: 1, TripDate: day},
		{OwnerID: 2, DriverID: 9, BagCount: 999, SnapshotCompanyRate: 100, TripDate: day},
	}}}

	got, err := calc.CalculateProfitSummary(context.Background(), 1, march2024(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.ProfitSummary{
		GrossRevenue:   1600,
		DriverEarnings: 800,
		LabourCost:     150,
		NetProfit:      650,
		TripCount:      2,
		TotalBags:      150,
	}
	if got.GrossRevenue != want.GrossRevenue || got.DriverEarnings != want.DriverEarnings ||
		got.LabourCost != want.LabourCost || got.NetProfit != want.NetProfit ||
		got.TripCount != want.TripCount || got.TotalBags != want.TotalBags {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if math.Abs(got.ProfitMargin-40.625) > 1e-9 {
		t.Fatalf("expected margin 40.625, got %v", got.ProfitMargin)
	}
}

func TestCalculateProfitSummaryEmptyRange(t *testing.T) {
	calc := OwnerProfitCalculator{Trips: &fakeTrips{}}
	got, err := calc.CalculateProfitSummary(context.Background(), 1, march2024(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProfitMargin != 0 || got.NetProfit != 0 || got.TripCount != 0 {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

// The same trips give the same profit whatever the driver side looks like.
func TestProfitIgnoresFuelAndAdvances(t *testing.T) {
	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	trips := &fakeTrips{trips: []models.Trip{
		{OwnerID: 1, DriverID: 7, BagCount: 100, SnapshotDriverRate: 5, SnapshotCompanyRate: 10, SnapshotLabourCostPerBag: 1, TripDate: day},
	}}
	owner := OwnerProfitCalculator{Trips: trips}
	before, err := owner.CalculateProfitSummary(context.Background(), 1, march2024(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	driver := DriverEarningsCalculator{
		Trips:    trips,
		Fuel:     &fakeFuel{entries: []models.FuelEntry{{OwnerID: 1, DriverID: 7, Amount: 400, EntryDate: day}}},
		Advances: &fakeAdvances{advances: []models.Advance{{ID: 1, OwnerID: 1, DriverID: 7, Amount: 300, IssuedAt: day}}},
	}
	if _, err := driver.CalculateNetPayable(context.Background(), 1, 7, march2024(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, err := owner.CalculateProfitSummary(context.Background(), 1, march2024(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before != after || after.NetProfit != 400 {
		t.Fatalf("profit changed: before %+v after %+v", before, after)
	}
}

func TestCalculateProfitSummaryPropagatesStoreError(t *testing.T) {
	boom := errors.New("boom")
	calc := OwnerProfitCalculator{Trips: &fakeTrips{err: boom}}
	if _, err := calc.CalculateProfitSummary(context.Background(), 1, march2024(t)); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

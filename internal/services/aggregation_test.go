package services

import (
	"context"
	"testing"
	"time"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

func TestMonthRange(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.December, 31},
		{2024, time.April, 30},
	}
	for _, tc := range cases {
		rng, err := MonthRange(tc.year, tc.month, time.UTC)
		if err != nil {
			t.Fatalf("%d-%02d: %v", tc.year, tc.month, err)
		}
		if rng.Start.Day() != 1 || rng.Start.Month() != tc.month {
			t.Fatalf("%d-%02d: unexpected start %v", tc.year, tc.month, rng.Start)
		}
		if got := int(rng.End.Sub(rng.Start).Hours() / 24); got != tc.days {
			t.Fatalf("%d-%02d: expected %d days, got %d", tc.year, tc.month, tc.days, got)
		}
	}

	dec, _ := MonthRange(2024, time.December, time.UTC)
	if !dec.End.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("december must end at new year, got %v", dec.End)
	}
	if dec.Contains(dec.End) {
		t.Fatalf("range end must be exclusive")
	}
	if !dec.Contains(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("last second of the year must be inside December")
	}

	for _, m := range []time.Month{0, 13} {
		if _, err := MonthRange(2024, m, time.UTC); !domain.IsValidation(err) {
			t.Fatalf("month %d: expected validation error, got %v", m, err)
		}
	}
}

func TestDayRangeUsesLocation(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 10th is already the 11th in IST.
	utc := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	rng := DayRange(utc.In(kolkata))
	want := time.Date(2024, 3, 11, 0, 0, 0, 0, kolkata)
	if !rng.Start.Equal(want) || !rng.End.Equal(want.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected day range %v - %v", rng.Start, rng.End)
	}
}

func TestInclusiveDays(t *testing.T) {
	first := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	last := time.Date(2024, 3, 31, 1, 0, 0, 0, time.UTC)
	rng, err := InclusiveDays(first, last)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rng.Contains(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("last day must be fully covered")
	}
	if rng.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day after last must be excluded")
	}

	same, err := InclusiveDays(first, first)
	if err != nil || same.End.Sub(same.Start) != 24*time.Hour {
		t.Fatalf("single day range expected, got %v %v", same, err)
	}
	if _, err := InclusiveDays(last, first); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for reversed days, got %v", err)
	}
}

func TestOwnerMonthlyExcludesNextMonth(t *testing.T) {
	trips := &fakeTrips{trips: []models.Trip{
		{OwnerID: 1, BagCount: 10, SnapshotCompanyRate: 10, TripDate: time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)},
		{OwnerID: 1, BagCount: 99, SnapshotCompanyRate: 10, TripDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	agg := AggregationService{Owner: OwnerProfitCalculator{Trips: trips}, Location: time.UTC}

	dec, err := agg.OwnerMonthly(context.Background(), 1, 2024, time.December)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.TripCount != 1 || dec.GrossRevenue != 100 {
		t.Fatalf("unexpected december summary %+v", dec)
	}
	jan, err := agg.OwnerMonthly(context.Background(), 1, 2025, time.January)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jan.TripCount != 1 || jan.TotalBags != 99 {
		t.Fatalf("unexpected january summary %+v", jan)
	}
}

func TestOwnerTodayUsesClock(t *testing.T) {
	now := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	trips := &fakeTrips{trips: []models.Trip{
		{OwnerID: 1, BagCount: 1, SnapshotCompanyRate: 10, TripDate: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{OwnerID: 1, BagCount: 1, SnapshotCompanyRate: 10, TripDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	agg := AggregationService{
		Owner:    OwnerProfitCalculator{Trips: trips},
		Location: time.UTC,
		Now:      func() time.Time { return now },
	}
	got, err := agg.OwnerToday(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TripCount != 1 {
		t.Fatalf("expected only the leap day trip, got %+v", got)
	}
}

func TestDriverDaily(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	agg := AggregationService{
		Driver: DriverEarningsCalculator{Trips: &fakeTrips{trips: []models.Trip{
			{OwnerID: 1, DriverID: 7, BagCount: 10, SnapshotDriverRate: 5, TripDate: day},
			{OwnerID: 1, DriverID: 7, BagCount: 10, SnapshotDriverRate: 5, TripDate: day.AddDate(0, 0, 1)},
		}}},
		Location: time.UTC,
	}
	got, err := agg.DriverDaily(context.Background(), 1, 7, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GrossEarnings != 50 {
		t.Fatalf("expected one day of earnings, got %+v", got)
	}
}

func TestMonthlyBreakdownHasTwelveMonths(t *testing.T) {
	agg := AggregationService{Owner: OwnerProfitCalculator{Trips: &fakeTrips{}}, Location: time.UTC}
	months, err := agg.MonthlyBreakdown(context.Background(), 1, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(months) != 12 || months[0].Month != 1 || months[11].Month != 12 {
		t.Fatalf("unexpected breakdown %+v", months)
	}
}

package services

import (
	"context"
	"time"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// MonthRange returns [first of month 00:00, first of next month 00:00) in loc.
func MonthRange(year int, month time.Month, loc *time.Location) (models.DateRange, error) {
	if month < time.January || month > time.December {
		return models.DateRange{}, domain.ValidationError{Field: "month", Msg: "month must be 1-12"}
	}
	if year < 1 || year > 9999 {
		return models.DateRange{}, domain.ValidationError{Field: "year", Msg: "year out of range"}
	}
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return models.DateRange{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// DayRange returns the calendar day containing t, in t's location.
func DayRange(t time.Time) models.DateRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return models.DateRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// InclusiveDays turns the calendar days first..last into a half-open range.
func InclusiveDays(first, last time.Time) (models.DateRange, error) {
	rng := models.DateRange{Start: DayRange(first).Start, End: DayRange(last).End}
	if !rng.Valid() {
		return models.DateRange{}, domain.ValidationError{Field: "end_date", Msg: "end date must not be before start date"}
	}
	return rng, nil
}

// MonthlyProfit is one row of a yearly breakdown.
type MonthlyProfit struct {
	Year    int                  `json:"year"`
	Month   int                  `json:"month"`
	Summary models.ProfitSummary `json:"summary"`
}

// AggregationService builds calendar ranges and hands them to the calculators.
type AggregationService struct {
	Owner    OwnerProfitCalculator
	Driver   DriverEarningsCalculator
	Location *time.Location
	Now      func() time.Time
}

func (a AggregationService) loc() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

// TodayRange is DayRange of the current time in the service's location.
func (a AggregationService) TodayRange() models.DateRange {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	return DayRange(now.In(a.loc()))
}

func (a AggregationService) OwnerMonthly(ctx context.Context, ownerID int64, year int, month time.Month) (models.ProfitSummary, error) {
	rng, err := MonthRange(year, month, a.loc())
	if err != nil {
		return models.ProfitSummary{}, err
	}
	return a.Owner.CalculateProfitSummary(ctx, ownerID, rng)
}

func (a AggregationService) OwnerDaily(ctx context.Context, ownerID int64, day time.Time) (models.ProfitSummary, error) {
	return a.Owner.CalculateProfitSummary(ctx, ownerID, DayRange(day.In(a.loc())))
}

func (a AggregationService) OwnerToday(ctx context.Context, ownerID int64) (models.ProfitSummary, error) {
	return a.Owner.CalculateProfitSummary(ctx, ownerID, a.TodayRange())
}

func (a AggregationService) DriverMonthly(ctx context.Context, ownerID, driverID int64, year int, month time.Month) (models.DriverSettlement, error) {
	rng, err := MonthRange(year, month, a.loc())
	if err != nil {
		return models.DriverSettlement{}, err
	}
	return a.Driver.CalculateNetPayable(ctx, ownerID, driverID, rng)
}

func (a AggregationService) DriverDaily(ctx context.Context, ownerID, driverID int64, day time.Time) (models.DriverSettlement, error) {
	return a.Driver.CalculateNetPayable(ctx, ownerID, driverID, DayRange(day.In(a.loc())))
}

// MonthlyBreakdown returns the owner's twelve monthly summaries for a year.
func (a AggregationService) MonthlyBreakdown(ctx context.Context, ownerID int64, year int) ([]MonthlyProfit, error) {
	out := make([]MonthlyProfit, 0, 12)
	for m := time.January; m <= time.December; m++ {
		sum, err := a.OwnerMonthly(ctx, ownerID, year, m)
		if err != nil {
			return nil, err
		}
		out = append(out, MonthlyProfit{Year: year, Month: int(m), Summary: sum})
	}
	return out, nil
}

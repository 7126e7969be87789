package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

const tripColumns = `id, correlation_id, owner_id, driver_id, company_id, client_id, pickup_location_id,
	bag_count, snapshot_driver_rate, snapshot_company_rate, snapshot_labour_cost_per_bag, snapshot_distance_km,
	status, verified, overridden, synced, sync_attempts, version, trip_date, created_at`

// TripColumns lists the selected trip columns in scan order.
var TripColumns = []string{
	"id", "correlation_id", "owner_id", "driver_id", "company_id", "client_id", "pickup_location_id",
	"bag_count", "snapshot_driver_rate", "snapshot_company_rate", "snapshot_labour_cost_per_bag", "snapshot_distance_km",
	"status", "verified", "overridden", "synced", "sync_attempts", "version", "trip_date", "created_at",
}

// ErrDuplicateCorrelationID marks an insert that lost the race for a correlation id.
var ErrDuplicateCorrelationID = errors.New("correlation id already stored")

type TripsRepository struct {
	DB intdb.DBTX
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(s rowScanner) (models.Trip, error) {
	var (
		t      models.Trip
		status string
	)
	err := s.Scan(
		&t.ID,
		&t.CorrelationID,
		&t.OwnerID,
		&t.DriverID,
		&t.CompanyID,
		&t.ClientID,
		&t.PickupLocationID,
		&t.BagCount,
		&t.SnapshotDriverRate,
		&t.SnapshotCompanyRate,
		&t.SnapshotLabourCostPerBag,
		&t.SnapshotDistanceKm,
		&status,
		&t.Verified,
		&t.Overridden,
		&t.Synced,
		&t.SyncAttempts,
		&t.Version,
		&t.TripDate,
		&t.CreatedAt,
	)
	t.Status = domain.TripStatus(status)
	return t, err
}

// Insert stores a new trip with its rate snapshot and returns the new id. A
// correlation id the owner already used is a ConflictError wrapping
// ErrDuplicateCorrelationID.
func (r TripsRepository) Insert(ctx context.Context, t models.Trip) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO trips (
			correlation_id, owner_id, driver_id, company_id, client_id, pickup_location_id,
			bag_count, snapshot_driver_rate, snapshot_company_rate, snapshot_labour_cost_per_bag, snapshot_distance_km,
			status, verified, overridden, synced, sync_attempts, version, trip_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.CorrelationID, t.OwnerID, t.DriverID, t.CompanyID, t.ClientID, t.PickupLocationID,
		t.BagCount, t.SnapshotDriverRate, t.SnapshotCompanyRate, t.SnapshotLabourCostPerBag, t.SnapshotDistanceKm,
		string(t.Status), t.Verified, t.Overridden, t.Synced, t.SyncAttempts, t.Version, t.TripDate, t.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, domain.ConflictError{
				Resource: "trip",
				Msg:      "correlation id " + t.CorrelationID + " already stored",
				Err:      fmt.Errorf("%w: %v", ErrDuplicateCorrelationID, err),
			}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r TripsRepository) GetByID(ctx context.Context, ownerID, id int64) (models.Trip, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE owner_id=? AND id=? LIMIT 1`, ownerID, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, domain.NotFoundError{Resource: "trip", ID: id, Err: err}
	}
	return t, err
}

// GetByCorrelationID reports found=false when no trip carries the id.
func (r TripsRepository) GetByCorrelationID(ctx context.Context, ownerID int64, correlationID string) (models.Trip, bool, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE owner_id=? AND correlation_id=? LIMIT 1`, ownerID, correlationID)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, false, nil
	}
	if err != nil {
		return models.Trip{}, false, err
	}
	return t, true, nil
}

// ListByRange returns all of the owner's trips with trip_date in [start, end).
func (r TripsRepository) ListByRange(ctx context.Context, ownerID int64, rng models.DateRange) ([]models.Trip, error) {
	return r.list(ctx, `SELECT `+tripColumns+` FROM trips
		WHERE owner_id=? AND trip_date>=? AND trip_date<?
		ORDER BY trip_date ASC, id ASC`, ownerID, rng.Start, rng.End)
}

func (r TripsRepository) ListByDriverRange(ctx context.Context, ownerID, driverID int64, rng models.DateRange) ([]models.Trip, error) {
	return r.list(ctx, `SELECT `+tripColumns+` FROM trips
		WHERE owner_id=? AND driver_id=? AND trip_date>=? AND trip_date<?
		ORDER BY trip_date ASC, id ASC`, ownerID, driverID, rng.Start, rng.End)
}

func (r TripsRepository) list(ctx context.Context, query string, args ...any) ([]models.Trip, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ApplyOverride writes the overridden bag count and status only when the row
// is still at expectedVersion, bumping the version. A stale version is a conflict.
func (r TripsRepository) ApplyOverride(ctx context.Context, ownerID, id int64, bagCount int, status domain.TripStatus, expectedVersion int64) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE trips
		SET bag_count=?, status=?, overridden=1, synced=0, version=version+1
		WHERE owner_id=? AND id=? AND version=?`,
		bagCount, string(status), ownerID, id, expectedVersion,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ConflictError{Resource: "trip", Msg: "trip was changed by someone else, reload and retry"})
}

// MarkVerified flips the verified flag under the same optimistic version check.
func (r TripsRepository) MarkVerified(ctx context.Context, ownerID, id int64, expectedVersion int64) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE trips SET verified=1, synced=0, version=version+1
		WHERE owner_id=? AND id=? AND version=?`,
		ownerID, id, expectedVersion,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ConflictError{Resource: "trip", Msg: "trip was changed by someone else, reload and retry"})
}

func expectOneRow(res sql.Result, onZero error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return onZero
	}
	return nil
}

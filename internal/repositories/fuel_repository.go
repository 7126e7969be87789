package repositories

import (
	"context"
	"database/sql"

	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// FuelColumns lists the selected fuel columns in scan order.
var FuelColumns = []string{"id", "owner_id", "driver_id", "amount", "liters", "price_per_liter", "station", "receipt_ref", "entry_date"}

type FuelRepository struct {
	DB intdb.DBTX
}

func (r FuelRepository) Insert(ctx context.Context, f models.FuelEntry) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO fuel_entries (owner_id, driver_id, amount, liters, price_per_liter, station, receipt_ref, entry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.OwnerID, f.DriverID, f.Amount, intdb.NullFloat(f.Liters), intdb.NullFloat(f.PricePerLiter),
		intdb.NullIfEmpty(f.Station), intdb.NullIfEmpty(f.ReceiptRef), f.EntryDate,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByDriverRange returns the driver's fuel entries with entry_date in [start, end).
func (r FuelRepository) ListByDriverRange(ctx context.Context, ownerID, driverID int64, rng models.DateRange) ([]models.FuelEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, driver_id, amount, liters, price_per_liter, COALESCE(station,''), COALESCE(receipt_ref,''), entry_date
		FROM fuel_entries
		WHERE owner_id=? AND driver_id=? AND entry_date>=? AND entry_date<?
		ORDER BY entry_date ASC, id ASC`,
		ownerID, driverID, rng.Start, rng.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.FuelEntry{}
	for rows.Next() {
		var (
			f             models.FuelEntry
			liters, price sql.NullFloat64
		)
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.DriverID, &f.Amount, &liters, &price, &f.Station, &f.ReceiptRef, &f.EntryDate); err != nil {
			return out, err
		}
		f.Liters = intdb.FloatPtr(liters)
		f.PricePerLiter = intdb.FloatPtr(price)
		out = append(out, f)
	}
	return out, rows.Err()
}

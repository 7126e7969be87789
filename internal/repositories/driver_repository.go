package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

const driverColumns = `id, owner_id, name, COALESCE(phone,''), is_active, advance_balance, created_at`

// DriverColumns lists the selected driver columns in scan order.
var DriverColumns = []string{"id", "owner_id", "name", "phone", "is_active", "advance_balance", "created_at"}

type DriverRepository struct {
	DB intdb.DBTX
}

func scanDriver(s rowScanner) (models.Driver, error) {
	var d models.Driver
	err := s.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Phone, &d.IsActive, &d.AdvanceBalance, &d.CreatedAt)
	return d, err
}

func (r DriverRepository) Insert(ctx context.Context, d models.Driver) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO drivers (owner_id, name, phone, is_active, advance_balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.OwnerID, d.Name, intdb.NullIfEmpty(d.Phone), d.IsActive, d.AdvanceBalance, d.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r DriverRepository) GetByID(ctx context.Context, ownerID, id int64) (models.Driver, error) {
	return r.get(ctx, `SELECT `+driverColumns+` FROM drivers WHERE owner_id=? AND id=? LIMIT 1`, ownerID, id)
}

// GetByIDForUpdate locks the driver row until the surrounding transaction
// ends, so ledger changes for one driver run one after another.
func (r DriverRepository) GetByIDForUpdate(ctx context.Context, ownerID, id int64) (models.Driver, error) {
	return r.get(ctx, `SELECT `+driverColumns+` FROM drivers WHERE owner_id=? AND id=? LIMIT 1 FOR UPDATE`, ownerID, id)
}

func (r DriverRepository) get(ctx context.Context, query string, ownerID, id int64) (models.Driver, error) {
	d, err := scanDriver(r.DB.QueryRowContext(ctx, query, ownerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Driver{}, domain.NotFoundError{Resource: "driver", ID: id, Err: err}
	}
	return d, err
}

func (r DriverRepository) List(ctx context.Context, ownerID int64, activeOnly bool) ([]models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE owner_id=?`
	if activeOnly {
		query += ` AND is_active=1`
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SetActive soft-deletes or restores a driver. Historical trips keep pointing at the row.
func (r DriverRepository) SetActive(ctx context.Context, ownerID, id int64, active bool) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE drivers SET is_active=? WHERE owner_id=? AND id=?`, active, ownerID, id)
	return err
}

// SetAdvanceBalance writes the cached outstanding balance. Callers must pass a
// value freshly summed from the advances table in the same transaction.
func (r DriverRepository) SetAdvanceBalance(ctx context.Context, ownerID, id int64, balance float64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE drivers SET advance_balance=? WHERE owner_id=? AND id=?`, balance, ownerID, id)
	return err
}

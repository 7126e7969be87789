package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// AdvanceColumns lists the selected advance columns in scan order.
var AdvanceColumns = []string{"id", "owner_id", "driver_id", "amount", "issued_at", "note", "is_deducted", "deducted_at"}

type AdvanceRepository struct {
	DB intdb.DBTX
}

func (r AdvanceRepository) Insert(ctx context.Context, a models.Advance) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO advances (owner_id, driver_id, amount, issued_at, note, is_deducted)
		VALUES (?, ?, ?, ?, ?, 0)`,
		a.OwnerID, a.DriverID, a.Amount, a.IssuedAt, intdb.NullIfEmpty(a.Note),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListOutstanding returns undeducted advances oldest first. No date filter:
// advances carry over until a settlement consumes them.
func (r AdvanceRepository) ListOutstanding(ctx context.Context, ownerID, driverID int64) ([]models.Advance, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, driver_id, amount, issued_at, COALESCE(note,''), is_deducted, deducted_at
		FROM advances
		WHERE owner_id=? AND driver_id=? AND is_deducted=0
		ORDER BY issued_at ASC, id ASC`,
		ownerID, driverID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Advance{}
	for rows.Next() {
		var (
			a          models.Advance
			deductedAt sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.DriverID, &a.Amount, &a.IssuedAt, &a.Note, &a.IsDeducted, &deductedAt); err != nil {
			return out, err
		}
		if deductedAt.Valid {
			t := deductedAt.Time
			a.DeductedAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SumOutstanding is the authoritative advance balance for a driver.
func (r AdvanceRepository) SumOutstanding(ctx context.Context, ownerID, driverID int64) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM advances
		WHERE owner_id=? AND driver_id=? AND is_deducted=0`,
		ownerID, driverID,
	).Scan(&total)
	return total, err
}

// MarkDeducted flags exactly ids as deducted in one statement. If any id was
// already deducted the whole batch is reported as a conflict so the caller
// rolls back instead of double counting.
func (r AdvanceRepository) MarkDeducted(ctx context.Context, ownerID int64, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	args := []any{at, ownerID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE advances SET is_deducted=1, deducted_at=?
		WHERE owner_id=? AND is_deducted=0 AND id IN (`+intdb.Placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return domain.ConflictError{
			Resource: "advance",
			Msg:      fmt.Sprintf("expected to deduct %d advances, updated %d", len(ids), n),
		}
	}
	return nil
}

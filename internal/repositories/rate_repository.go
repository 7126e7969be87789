package repositories

import (
	"context"
	"database/sql"

	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// SlabColumns lists the selected rate slab columns in scan order.
var SlabColumns = []string{"id", "owner_id", "min_distance", "max_distance", "rate_per_bag", "is_active"}

// LabourRuleColumns lists the selected labour rule columns in scan order.
var LabourRuleColumns = []string{"id", "owner_id", "name", "cost_per_bag", "is_default", "is_active"}

// RateRepository holds the owner's rate configuration: driver rate slabs and labour cost rules.
type RateRepository struct {
	DB intdb.DBTX
}

// ListActiveSlabs returns active slabs ordered by min_distance ascending.
func (r RateRepository) ListActiveSlabs(ctx context.Context, ownerID int64) ([]models.DriverRateSlab, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, min_distance, max_distance, rate_per_bag, is_active
		FROM driver_rate_slabs
		WHERE owner_id=? AND is_active=1
		ORDER BY min_distance ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DriverRateSlab{}
	for rows.Next() {
		var (
			s       models.DriverRateSlab
			maxDist sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.MinDistance, &maxDist, &s.RatePerBag, &s.IsActive); err != nil {
			return out, err
		}
		s.MaxDistance = intdb.FloatPtr(maxDist)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r RateRepository) DeactivateAllSlabs(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE driver_rate_slabs SET is_active=0 WHERE owner_id=? AND is_active=1`, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r RateRepository) InsertSlab(ctx context.Context, s models.DriverRateSlab) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO driver_rate_slabs (owner_id, min_distance, max_distance, rate_per_bag, is_active)
		VALUES (?, ?, ?, ?, 1)`,
		s.OwnerID, s.MinDistance, intdb.NullFloat(s.MaxDistance), s.RatePerBag,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListActiveLabourRules returns active rules, defaults first.
func (r RateRepository) ListActiveLabourRules(ctx context.Context, ownerID int64) ([]models.LabourCostRule, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, name, cost_per_bag, is_default, is_active
		FROM labour_cost_rules
		WHERE owner_id=? AND is_active=1
		ORDER BY is_default DESC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LabourCostRule{}
	for rows.Next() {
		var l models.LabourCostRule
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.CostPerBag, &l.IsDefault, &l.IsActive); err != nil {
			return out, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r RateRepository) DeactivateAllLabourRules(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE labour_cost_rules SET is_active=0 WHERE owner_id=? AND is_active=1`, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r RateRepository) InsertLabourRule(ctx context.Context, l models.LabourCostRule) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO labour_cost_rules (owner_id, name, cost_per_bag, is_default, is_active)
		VALUES (?, ?, ?, ?, 1)`,
		l.OwnerID, l.Name, l.CostPerBag, l.IsDefault,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

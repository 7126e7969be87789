package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// CompanyRepository covers companies and the clients/pickup points trips reference.
type CompanyRepository struct {
	DB intdb.DBTX
}

func (r CompanyRepository) GetByID(ctx context.Context, ownerID, id int64) (models.Company, error) {
	return r.getCompany(ctx, `SELECT id, owner_id, name, rate_per_bag, is_active FROM companies WHERE owner_id=? AND id=? LIMIT 1`, ownerID, id)
}

// GetByIDForUpdate locks the company row for a read-modify-write.
func (r CompanyRepository) GetByIDForUpdate(ctx context.Context, ownerID, id int64) (models.Company, error) {
	return r.getCompany(ctx, `SELECT id, owner_id, name, rate_per_bag, is_active FROM companies WHERE owner_id=? AND id=? LIMIT 1 FOR UPDATE`, ownerID, id)
}

func (r CompanyRepository) getCompany(ctx context.Context, query string, ownerID, id int64) (models.Company, error) {
	var c models.Company
	err := r.DB.QueryRowContext(ctx, query, ownerID, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.RatePerBag, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Company{}, domain.NotFoundError{Resource: "company", ID: id, Err: err}
	}
	return c, err
}

func (r CompanyRepository) UpdateRate(ctx context.Context, ownerID, id int64, rate float64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE companies SET rate_per_bag=? WHERE owner_id=? AND id=?`, rate, ownerID, id)
	return err
}

func (r CompanyRepository) GetClient(ctx context.Context, ownerID, id int64) (models.Client, error) {
	var c models.Client
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, company_id, name, distance_km
		FROM clients WHERE owner_id=? AND id=? LIMIT 1`,
		ownerID, id,
	).Scan(&c.ID, &c.OwnerID, &c.CompanyID, &c.Name, &c.DistanceKm)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, domain.NotFoundError{Resource: "client", ID: id, Err: err}
	}
	return c, err
}

func (r CompanyRepository) GetPickupLocation(ctx context.Context, ownerID, id int64) (models.PickupLocation, error) {
	var p models.PickupLocation
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, name FROM pickup_locations WHERE owner_id=? AND id=? LIMIT 1`,
		ownerID, id,
	).Scan(&p.ID, &p.OwnerID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PickupLocation{}, domain.NotFoundError{Resource: "pickup location", ID: id, Err: err}
	}
	return p, err
}

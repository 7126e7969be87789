package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// UserColumns lists the selected user columns in scan order.
var UserColumns = []string{"id", "owner_id", "driver_id", "name", "username", "password_hash", "role", "is_active", "created_at"}

const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

type UserRepository struct {
	DB intdb.DBTX
}

// Insert stores a login. A taken username or driver is reported as a conflict.
func (r UserRepository) Insert(ctx context.Context, u models.User) (int64, error) {
	var driverID any
	if u.DriverID != nil {
		driverID = *u.DriverID
	}
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (owner_id, driver_id, name, username, password_hash, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.OwnerID, driverID, u.Name, strings.ToLower(u.Username), u.PasswordHash, string(u.Role), u.IsActive, u.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, domain.ConflictError{Resource: "user", Msg: "username or driver already has a login", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

// SetOwnerID makes an owner login its own tenant.
func (r UserRepository) SetOwnerID(ctx context.Context, id, ownerID int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET owner_id=? WHERE id=?`, ownerID, id)
	return err
}

func (r UserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var (
		u        models.User
		driverID sql.NullInt64
		role     string
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, driver_id, name, username, password_hash, role, is_active, created_at
		FROM users WHERE username=? LIMIT 1`,
		strings.ToLower(strings.TrimSpace(username)),
	).Scan(&u.ID, &u.OwnerID, &driverID, &u.Name, &u.Username, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, err
	}
	if driverID.Valid {
		v := driverID.Int64
		u.DriverID = &v
	}
	u.Role = domain.Role(role)
	return u, nil
}

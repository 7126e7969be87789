package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/UpwanSingh/FleetControl-sub002/internal/auth"
	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
	"github.com/UpwanSingh/FleetControl-sub002/internal/repositories"
	"github.com/UpwanSingh/FleetControl-sub002/internal/utils"
)

// ErrInvalidCredentials is returned for an unknown user, a wrong password or
// a disabled login alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{3,64}$`)

const defaultTokenTTL = 24 * time.Hour

type AuthService struct {
	DB        *sql.DB
	Secret    []byte
	TokenTTL  time.Duration
	RequestID string
	Now       func() time.Time
}

// LoginResult is the issued token and the user it belongs to.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s AuthService) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return defaultTokenTTL
}

func normalizeUsername(raw string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(raw))
	if !usernamePattern.MatchString(u) {
		return "", domain.ValidationError{Field: "username", Msg: "use 3-64 letters, digits, dot, dash or underscore"}
	}
	return u, nil
}

func (s AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	u, err := repositories.UserRepository{DB: s.DB}.GetByUsername(ctx, username)
	if domain.IsNotFound(err) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !u.IsActive || !auth.CheckPassword(u.PasswordHash, password) {
		utils.LogEvent(s.RequestID, "auth", "login", "rejected username="+u.Username)
		return LoginResult{}, ErrInvalidCredentials
	}
	token, err := auth.SignToken(s.Secret, u.RequestContext(), s.ttl(), s.now())
	if err != nil {
		return LoginResult{}, err
	}
	utils.LogEventf(s.RequestID, "auth", "login", "user_id=%d role=%s", u.ID, u.Role)
	return LoginResult{Token: token, User: u}, nil
}

// RegisterOwner opens a new tenant: the owner's own user id becomes its owner id.
func (s AuthService) RegisterOwner(ctx context.Context, name, username, password string) (models.User, error) {
	name = utils.NormalizeSpace(name)
	if name == "" {
		return models.User{}, domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	uname, err := normalizeUsername(username)
	if err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, domain.ValidationError{Field: "password", Msg: err.Error(), Err: err}
	}

	u := models.User{
		Name:         name,
		Username:     uname,
		PasswordHash: hash,
		Role:         domain.RoleOwner,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	err = intdb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		users := repositories.UserRepository{DB: tx}
		id, err := users.Insert(ctx, u)
		if err != nil {
			return err
		}
		if err := users.SetOwnerID(ctx, id, id); err != nil {
			return err
		}
		u.ID, u.OwnerID = id, id
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "auth", "register_owner", "failed: "+err.Error())
		return models.User{}, err
	}
	return u, nil
}

// CreateDriverLogin gives an existing driver a login of their own.
func (s AuthService) CreateDriverLogin(ctx context.Context, actor domain.RequestContext, driverID int64, username, password string) (models.User, error) {
	if err := requireOwner(actor, "create a driver login"); err != nil {
		return models.User{}, err
	}
	uname, err := normalizeUsername(username)
	if err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, domain.ValidationError{Field: "password", Msg: err.Error(), Err: err}
	}

	var out models.User
	err = intdb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		r := reposFor(tx)
		d, err := r.drivers.GetByID(ctx, actor.OwnerID, driverID)
		if err != nil {
			return err
		}
		u := models.User{
			OwnerID:      actor.OwnerID,
			DriverID:     &d.ID,
			Name:         d.Name,
			Username:     uname,
			PasswordHash: hash,
			Role:         domain.RoleDriver,
			IsActive:     true,
			CreatedAt:    s.now(),
		}
		id, err := repositories.UserRepository{DB: tx}.Insert(ctx, u)
		if err != nil {
			return err
		}
		u.ID = id

		audit := SettlementService{Now: s.Now}
		if err := audit.writeAudit(ctx, r, actor, auditRecord{
			entity:   domain.EntityDriver,
			entityID: d.ID,
			action:   domain.ActionUpdate,
			reason:   "driver login created",
			newValue: "username=" + uname,
		}); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "auth", "driver_login", "failed: "+err.Error())
		return models.User{}, err
	}
	return out, nil
}

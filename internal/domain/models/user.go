package models

import (
	"time"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
)

// User is a login. Owners carry their own id as OwnerID; driver logins are
// tied to one Driver row.
type User struct {
	ID           int64       `json:"id"`
	OwnerID      int64       `json:"ownerId"`
	DriverID     *int64      `json:"driverId,omitempty"`
	Name         string      `json:"name"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         domain.Role `json:"role"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// RequestContext is what a token issued for u carries.
func (u User) RequestContext() domain.RequestContext {
	rc := domain.RequestContext{UserID: u.ID, OwnerID: u.OwnerID, Role: u.Role, Name: u.Name}
	if u.DriverID != nil {
		rc.DriverID = *u.DriverID
	}
	return rc
}

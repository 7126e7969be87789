package domain

import "strings"

// ID is used across domain entities.
type ID = int64

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total,omitempty"`
}

// Offset converts page/pageSize into a SQL offset, clamping bad input.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

func (p Pagination) Limit() int {
	switch {
	case p.PageSize <= 0:
		return 50
	case p.PageSize > 500:
		return 500
	default:
		return p.PageSize
	}
}

// Role of the authenticated actor.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleDriver Role = "driver"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID   ID     `json:"userId"`
	OwnerID  ID     `json:"ownerId"`
	DriverID ID     `json:"driverId,omitempty"` // set for driver accounts
	Role     Role   `json:"role"`
	Name     string `json:"name"`
}

func (rc RequestContext) IsOwner() bool { return rc.Role == RoleOwner }

// Actor is the performedBy value written to audit rows.
func (rc RequestContext) Actor() string {
	name := strings.TrimSpace(rc.Name)
	if name == "" {
		name = "user"
	}
	return string(rc.Role) + ":" + name
}

// EntityType names the audited entity.
type EntityType string

const (
	EntityTrip       EntityType = "TRIP"
	EntityDriver     EntityType = "DRIVER"
	EntityAdvance    EntityType = "ADVANCE"
	EntityCompany    EntityType = "COMPANY"
	EntityRateSlab   EntityType = "RATE_SLAB"
	EntityLabourRule EntityType = "LABOUR_RULE"
	EntityFuel       EntityType = "FUEL"
)

var entityTypes = map[EntityType]struct{}{
	EntityTrip: {}, EntityDriver: {}, EntityAdvance: {}, EntityCompany: {},
	EntityRateSlab: {}, EntityLabourRule: {}, EntityFuel: {},
}

func (t EntityType) Valid() bool {
	_, ok := entityTypes[t]
	return ok
}

// ParseEntityType accepts any casing and rejects unknown values.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ValidationError{Field: "entity_type", Msg: "unknown entity type " + s}
	}
	return t, nil
}

// AuditAction is the kind of mutation recorded in the audit log.
type AuditAction string

const (
	ActionCreate     AuditAction = "CREATE"
	ActionUpdate     AuditAction = "UPDATE"
	ActionDelete     AuditAction = "DELETE"
	ActionOverride   AuditAction = "OVERRIDE"
	ActionSettlement AuditAction = "SETTLEMENT"
	ActionDeactivate AuditAction = "DEACTIVATE"
	ActionReactivate AuditAction = "REACTIVATE"
)

var auditActions = map[AuditAction]struct{}{
	ActionCreate: {}, ActionUpdate: {}, ActionDelete: {}, ActionOverride: {},
	ActionSettlement: {}, ActionDeactivate: {}, ActionReactivate: {},
}

func (a AuditAction) Valid() bool {
	_, ok := auditActions[a]
	return ok
}

func ParseAuditAction(s string) (AuditAction, error) {
	a := AuditAction(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", ValidationError{Field: "action", Msg: "unknown audit action " + s}
	}
	return a, nil
}

// TripStatus tracks a trip through delivery.
type TripStatus string

const (
	TripPending    TripStatus = "pending"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
)

func (s TripStatus) Valid() bool {
	switch s {
	case TripPending, TripInProgress, TripCompleted:
		return true
	}
	return false
}

func ParseTripStatus(s string) (TripStatus, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "-", "_")
	st := TripStatus(v)
	if !st.Valid() {
		return "", ValidationError{Field: "status", Msg: "unknown trip status " + s}
	}
	return st, nil
}

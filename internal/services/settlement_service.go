package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
	"github.com/UpwanSingh/FleetControl-sub002/internal/repositories"
	"github.com/UpwanSingh/FleetControl-sub002/internal/utils"
)

// SettlementService runs every money-affecting mutation as one transaction
// together with its audit row. Either both are stored or neither is.
type SettlementService struct {
	DB        *sql.DB
	RequestID string

	Now   func() time.Time // defaults to utils.NowUTC
	NewID func() string    // defaults to uuid.NewString
}

// txRepos binds every repository to the same transaction.
type txRepos struct {
	trips     repositories.TripsRepository
	drivers   repositories.DriverRepository
	advances  repositories.AdvanceRepository
	fuel      repositories.FuelRepository
	rates     repositories.RateRepository
	companies repositories.CompanyRepository
	audit     repositories.AuditRepository
}

func reposFor(tx intdb.DBTX) txRepos {
	return txRepos{
		trips:     repositories.TripsRepository{DB: tx},
		drivers:   repositories.DriverRepository{DB: tx},
		advances:  repositories.AdvanceRepository{DB: tx},
		fuel:      repositories.FuelRepository{DB: tx},
		rates:     repositories.RateRepository{DB: tx},
		companies: repositories.CompanyRepository{DB: tx},
		audit:     repositories.AuditRepository{DB: tx},
	}
}

func (s SettlementService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s SettlementService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// inTx opens the unit of work; the repos passed to fn all share its transaction.
func (s SettlementService) inTx(ctx context.Context, fn func(r txRepos) error) error {
	return intdb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		return fn(reposFor(tx))
	})
}

type auditRecord struct {
	entity   domain.EntityType
	entityID int64
	action   domain.AuditAction
	reason   string
	original string
	newValue string
}

func (s SettlementService) writeAudit(ctx context.Context, r txRepos, actor domain.RequestContext, rec auditRecord) error {
	_, err := r.audit.Insert(ctx, models.AuditLogEntry{
		OwnerID:       actor.OwnerID,
		EntityType:    rec.entity,
		EntityID:      rec.entityID,
		Action:        rec.action,
		PerformedBy:   actor.Actor(),
		Reason:        rec.reason,
		OriginalValue: rec.original,
		NewValue:      rec.newValue,
		CreatedAt:     s.now(),
	})
	if err != nil {
		return fmt.Errorf("write audit: %w", err)
	}
	return nil
}

func requireOwner(actor domain.RequestContext, action string) error {
	if !actor.IsOwner() {
		return domain.ForbiddenError{Action: action}
	}
	if actor.OwnerID <= 0 {
		return domain.ValidationError{Field: "owner_id", Msg: "owner is required"}
	}
	return nil
}

func requireActor(actor domain.RequestContext) error {
	if actor.OwnerID <= 0 {
		return domain.ValidationError{Field: "owner_id", Msg: "owner is required"}
	}
	if actor.Role != domain.RoleOwner && actor.Role != domain.RoleDriver {
		return domain.ForbiddenError{}
	}
	return nil
}

// scopeDriver pins a driver account to its own driver id.
func scopeDriver(actor domain.RequestContext, driverID int64) (int64, error) {
	if actor.IsOwner() {
		if driverID <= 0 {
			return 0, domain.ValidationError{Field: "driver_id", Msg: "driver is required"}
		}
		return driverID, nil
	}
	if actor.DriverID <= 0 || (driverID != 0 && driverID != actor.DriverID) {
		return 0, domain.ForbiddenError{Action: "act for another driver"}
	}
	return actor.DriverID, nil
}

func orDefault(reason, fallback string) string {
	if r := utils.NormalizeSpace(reason); r != "" {
		return r
	}
	return fallback
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

type CreateTripInput struct {
	Actor            domain.RequestContext
	CorrelationID    string // optional; generated when empty
	DriverID         int64
	ClientID         int64
	PickupLocationID int64
	BagCount         int
	Status           domain.TripStatus
	TripDate         time.Time
}

// CreateTrip snapshots the current rates into a new trip. Missing rate
// configuration blocks the trip instead of storing a zero rate. Retrying with
// a correlation id that already exists returns the stored trip.
func (s SettlementService) CreateTrip(ctx context.Context, in CreateTripInput) (models.Trip, error) {
	if err := requireActor(in.Actor); err != nil {
		return models.Trip{}, err
	}
	driverID, err := scopeDriver(in.Actor, in.DriverID)
	if err != nil {
		return models.Trip{}, err
	}
	if in.BagCount <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "bag_count", Msg: "bag count must be greater than 0"}
	}
	if in.ClientID <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "client_id", Msg: "client is required"}
	}
	if in.PickupLocationID <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "pickup_location_id", Msg: "pickup location is required"}
	}
	status := in.Status
	if status == "" {
		status = domain.TripPending
	}
	if !status.Valid() {
		return models.Trip{}, domain.ValidationError{Field: "status", Msg: "unknown trip status " + string(status)}
	}
	correlationID := strings.TrimSpace(in.CorrelationID)
	if correlationID != "" {
		if _, err := uuid.Parse(correlationID); err != nil {
			return models.Trip{}, domain.ValidationError{Field: "correlation_id", Msg: "correlation id must be a UUID", Err: err}
		}
	}

	now := s.now()
	tripDate := in.TripDate
	if tripDate.IsZero() {
		tripDate = now
	}
	ownerID := in.Actor.OwnerID

	var out models.Trip
	existing := false
	err = s.inTx(ctx, func(r txRepos) error {
		if correlationID != "" {
			t, found, err := r.trips.GetByCorrelationID(ctx, ownerID, correlationID)
			if err != nil {
				return err
			}
			if found {
				out, existing = t, true
				return nil
			}
		} else {
			correlationID = s.newID()
		}

		driver, err := r.drivers.GetByID(ctx, ownerID, driverID)
		if err != nil {
			return err
		}
		if !driver.IsActive {
			return domain.ValidationError{Field: "driver_id", Msg: "driver " + driver.Name + " is inactive"}
		}
		client, err := r.companies.GetClient(ctx, ownerID, in.ClientID)
		if err != nil {
			return err
		}
		if _, err := r.companies.GetPickupLocation(ctx, ownerID, in.PickupLocationID); err != nil {
			return err
		}
		company, err := r.companies.GetByID(ctx, ownerID, client.CompanyID)
		if err != nil {
			return err
		}
		if !company.IsActive {
			return domain.ValidationError{Field: "client_id", Msg: "company " + company.Name + " is inactive"}
		}
		if company.RatePerBag <= 0 {
			return domain.ConfigurationError{
				Setting: "company rate",
				Msg:     "no rate per bag set for company " + company.Name + " - ask owner to set it",
			}
		}

		resolver := RateResolver{Rates: r.rates}
		driverRate, err := resolver.ResolveDriverRate(ctx, ownerID, client.DistanceKm)
		if err != nil {
			return err
		}
		labour, ok, err := resolver.ResolveLabourRule(ctx, ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ConfigurationError{
				Setting: "labour cost",
				Msg:     "no labour cost rule configured - ask owner to add one (cost 0 if unused)",
			}
		}

		t := models.Trip{
			CorrelationID:            correlationID,
			OwnerID:                  ownerID,
			DriverID:                 driverID,
			CompanyID:                company.ID,
			ClientID:                 client.ID,
			PickupLocationID:         in.PickupLocationID,
			BagCount:                 in.BagCount,
			SnapshotDriverRate:       driverRate,
			SnapshotCompanyRate:      company.RatePerBag,
			SnapshotLabourCostPerBag: labour.CostPerBag,
			SnapshotDistanceKm:       client.DistanceKm,
			Status:                   status,
			Version:                  1,
			TripDate:                 tripDate,
			CreatedAt:                now,
		}
		id, err := r.trips.Insert(ctx, t)
		if err != nil {
			return err
		}
		t.ID = id

		if err := s.writeAudit(ctx, r, in.Actor, auditRecord{
			entity:   domain.EntityTrip,
			entityID: id,
			action:   domain.ActionCreate,
			reason:   "trip created",
			newValue: toJSON(models.WithCalc(t)),
		}); err != nil {
			return err
		}
		out = t
		return nil
	})
	if errors.Is(err, repositories.ErrDuplicateCorrelationID) {
		// a concurrent retry stored it first; its transaction has committed
		t, found, lookupErr := repositories.TripsRepository{DB: s.DB}.GetByCorrelationID(ctx, ownerID, correlationID)
		if lookupErr == nil && found {
			out, existing, err = t, true, nil
		}
	}
	if err != nil {
		utils.LogEvent(s.RequestID, "trip", "create", "failed: "+err.Error())
		return models.Trip{}, err
	}
	if existing {
		utils.LogEventf(s.RequestID, "trip", "create", "correlation_id=%s already stored as trip %d", correlationID, out.ID)
		return out, nil
	}
	utils.LogEventf(s.RequestID, "trip", "create", "trip_id=%d driver_id=%d bags=%d", out.ID, out.DriverID, out.BagCount)
	return out, nil
}

type OverrideTripInput struct {
	Actor           domain.RequestContext
	TripID          int64
	BagCount        *int
	Status          *domain.TripStatus
	ExpectedVersion int64
	Reason          string
}

// OverrideTrip lets the owner correct a trip's bag count or status. The
// snapshot rates are never touched.
func (s SettlementService) OverrideTrip(ctx context.Context, in OverrideTripInput) (models.Trip, error) {
	if err := requireOwner(in.Actor, "override a trip"); err != nil {
		return models.Trip{}, err
	}
	reason := utils.NormalizeSpace(in.Reason)
	if reason == "" {
		return models.Trip{}, domain.ValidationError{Field: "reason", Msg: "a reason is required to override a trip"}
	}
	if in.TripID <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "trip_id", Msg: "trip is required"}
	}
	if in.BagCount == nil && in.Status == nil {
		return models.Trip{}, domain.ValidationError{Msg: "nothing to override: set bag count or status"}
	}
	if in.BagCount != nil && *in.BagCount <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "bag_count", Msg: "bag count must be greater than 0"}
	}
	if in.Status != nil && !in.Status.Valid() {
		return models.Trip{}, domain.ValidationError{Field: "status", Msg: "unknown trip status " + string(*in.Status)}
	}
	if in.ExpectedVersion <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "expected_version", Msg: "expected version is required"}
	}

	var out models.Trip
	err := s.inTx(ctx, func(r txRepos) error {
		cur, err := r.trips.GetByID(ctx, in.Actor.OwnerID, in.TripID)
		if err != nil {
			return err
		}
		if cur.Version != in.ExpectedVersion {
			return domain.ConflictError{
				Resource: "trip",
				Msg:      fmt.Sprintf("trip is at version %d, not %d - reload and retry", cur.Version, in.ExpectedVersion),
			}
		}

		next := cur
		if in.BagCount != nil {
			next.BagCount = *in.BagCount
		}
		if in.Status != nil {
			next.Status = *in.Status
		}
		if err := r.trips.ApplyOverride(ctx, in.Actor.OwnerID, cur.ID, next.BagCount, next.Status, cur.Version); err != nil {
			return err
		}
		next.Overridden = true
		next.Synced = false
		next.Version = cur.Version + 1

		if err := s.writeAudit(ctx, r, in.Actor, auditRecord{
			entity:   domain.EntityTrip,
			entityID: cur.ID,
			action:   domain.ActionOverride,
			reason:   reason,
			original: tripOverrideValue(cur),
			newValue: tripOverrideValue(next),
		}); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "trip", "override", "failed: "+err.Error())
		return models.Trip{}, err
	}
	utils.LogEventf(s.RequestID, "trip", "override", "trip_id=%d version=%d", out.ID, out.Version)
	return out, nil
}

func tripOverrideValue(t models.Trip) string {
	return fmt.Sprintf("bagCount=%d status=%s version=%d", t.BagCount, t.Status, t.Version)
}

// VerifyTrip marks a trip as checked by the owner.
func (s SettlementService) VerifyTrip(ctx context.Context, actor domain.RequestContext, tripID, expectedVersion int64, reason string) (models.Trip, error) {
	if err := requireOwner(actor, "verify a trip"); err != nil {
		return models.Trip{}, err
	}
	if tripID <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "trip_id", Msg: "trip is required"}
	}
	if expectedVersion <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "expected_version", Msg: "expected version is required"}
	}

	var out models.Trip
	err := s.inTx(ctx, func(r txRepos) error {
		cur, err := r.trips.GetByID(ctx, actor.OwnerID, tripID)
		if err != nil {
			return err
		}
		if cur.Verified {
			out = cur
			return nil
		}
		if cur.Version != expectedVersion {
			return domain.ConflictError{
				Resource: "trip",
				Msg:      fmt.Sprintf("trip is at version %d, not %d - reload and retry", cur.Version, expectedVersion),
			}
		}
		if err := r.trips.MarkVerified(ctx, actor.OwnerID, cur.ID, cur.Version); err != nil {
			return err
		}
		next := cur
		next.Verified = true
		next.Synced = false
		next.Version = cur.Version + 1

		if err := s.writeAudit(ctx, r, actor, auditRecord{
			entity:   domain.EntityTrip,
			entityID: cur.ID,
			action:   domain.ActionUpdate,
			reason:   orDefault(reason, "trip verified"),
			original: "verified=false",
			newValue: "verified=true",
		}); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "trip", "verify", "failed: "+err.Error())
		return models.Trip{}, err
	}
	return out, nil
}

package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
	"github.com/UpwanSingh/FleetControl-sub002/internal/utils"
)

func validAmount(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

type IssueAdvanceInput struct {
	Actor    domain.RequestContext
	DriverID int64
	Amount   float64
	IssuedAt time.Time
	Note     string
}

// AdvanceReceipt is the stored advance plus the driver's balance after it.
type AdvanceReceipt struct {
	Advance            models.Advance `json:"advance"`
	OutstandingBalance float64        `json:"outstandingBalance"`
}

// IssueAdvance records cash handed to a driver and refreshes the cached
// balance from the ledger in the same transaction.
func (s SettlementService) IssueAdvance(ctx context.Context, in IssueAdvanceInput) (AdvanceReceipt, error) {
	if err := requireOwner(in.Actor, "issue an advance"); err != nil {
		return AdvanceReceipt{}, err
	}
	if in.DriverID <= 0 {
		return AdvanceReceipt{}, domain.ValidationError{Field: "driver_id", Msg: "driver is required"}
	}
	if !validAmount(in.Amount) {
		return AdvanceReceipt{}, domain.ValidationError{Field: "amount", Msg: "advance amount must be greater than 0"}
	}
	issuedAt := in.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now()
	}

	var out AdvanceReceipt
	err := s.inTx(ctx, func(r txRepos) error {
		driver, err := r.drivers.GetByIDForUpdate(ctx, in.Actor.OwnerID, in.DriverID)
		if err != nil {
			return err
		}
		adv := models.Advance{
			OwnerID:  in.Actor.OwnerID,
			DriverID: driver.ID,
			Amount:   in.Amount,
			IssuedAt: issuedAt,
			Note:     strings.TrimSpace(in.Note),
		}
		id, err := r.advances.Insert(ctx, adv)
		if err != nil {
			return err
		}
		adv.ID = id

		balance, err := r.advances.SumOutstanding(ctx, in.Actor.OwnerID, driver.ID)
		if err != nil {
			return err
		}
		if err := r.drivers.SetAdvanceBalance(ctx, in.Actor.OwnerID, driver.ID, balance); err != nil {
			return err
		}

		if err := s.writeAudit(ctx, r, in.Actor, auditRecord{
			entity:   domain.EntityAdvance,
			entityID: id,
			action:   domain.ActionCreate,
			reason:   orDefault(adv.Note, "advance issued"),
			original: "balance=" + utils.FormatMoney(driver.AdvanceBalance),
			newValue: "amount=" + utils.FormatMoney(adv.Amount) + " balance=" + utils.FormatMoney(balance),
		}); err != nil {
			return err
		}
		out = AdvanceReceipt{Advance: adv, OutstandingBalance: balance}
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "advance", "issue", "failed: "+err.Error())
		return AdvanceReceipt{}, err
	}
	utils.LogEventf(s.RequestID, "advance", "issue", "advance_id=%d driver_id=%d", out.Advance.ID, in.DriverID)
	return out, nil
}

type SettleInput struct {
	Actor    domain.RequestContext
	DriverID int64
	Range    models.DateRange
	Reason   string
}

type settlementBefore struct {
	Outstanding   float64 `json:"outstanding"`
	CachedBalance float64 `json:"cachedBalance"`
}

// Settle pays a driver out for a period. Outstanding advances are consumed
// oldest first, whole advances only, up to what the period's earnings after
// fuel can cover. The returned AdvanceDeducted is what was actually consumed.
func (s SettlementService) Settle(ctx context.Context, in SettleInput) (models.DriverSettlement, error) {
	if err := requireOwner(in.Actor, "settle a driver"); err != nil {
		return models.DriverSettlement{}, err
	}
	if in.DriverID <= 0 {
		return models.DriverSettlement{}, domain.ValidationError{Field: "driver_id", Msg: "driver is required"}
	}
	if !in.Range.Valid() {
		return models.DriverSettlement{}, domain.ValidationError{Field: "range", Msg: "start must be before end"}
	}

	var out models.DriverSettlement
	err := s.inTx(ctx, func(r txRepos) error {
		ownerID := in.Actor.OwnerID
		driver, err := r.drivers.GetByIDForUpdate(ctx, ownerID, in.DriverID)
		if err != nil {
			return err
		}

		trips, err := r.trips.ListByDriverRange(ctx, ownerID, driver.ID, in.Range)
		if err != nil {
			return err
		}
		entries, err := r.fuel.ListByDriverRange(ctx, ownerID, driver.ID, in.Range)
		if err != nil {
			return err
		}
		gross := models.SumDriverEarnings(trips)
		fuel := models.SumFuel(entries)

		outstanding, err := r.advances.SumOutstanding(ctx, ownerID, driver.ID)
		if err != nil {
			return err
		}
		limit := models.DeductionCap(gross, fuel, outstanding)

		var (
			ids     []int64
			applied float64
		)
		if limit > 0 {
			advances, err := r.advances.ListOutstanding(ctx, ownerID, driver.ID)
			if err != nil {
				return err
			}
			ids, applied = models.SelectAdvancesFIFO(advances, limit)
			if err := r.advances.MarkDeducted(ctx, ownerID, ids, s.now()); err != nil {
				return err
			}
		}

		balance, err := r.advances.SumOutstanding(ctx, ownerID, driver.ID)
		if err != nil {
			return err
		}
		if err := r.drivers.SetAdvanceBalance(ctx, ownerID, driver.ID, balance); err != nil {
			return err
		}

		result := models.DriverSettlement{
			DriverID:                driver.ID,
			GrossEarnings:           gross,
			FuelCost:                fuel,
			AdvanceDeducted:         applied,
			NetPayable:              models.PayableAfter(gross, fuel, applied),
			RemainingAdvanceBalance: balance,
			DeductedAdvanceIDs:      ids,
		}
		reason := orDefault(in.Reason, "settlement ["+utils.FormatDate(in.Range.Start)+", "+utils.FormatDate(in.Range.End)+")")
		if err := s.writeAudit(ctx, r, in.Actor, auditRecord{
			entity:   domain.EntityDriver,
			entityID: driver.ID,
			action:   domain.ActionSettlement,
			reason:   reason,
			original: toJSON(settlementBefore{Outstanding: outstanding, CachedBalance: driver.AdvanceBalance}),
			newValue: toJSON(result),
		}); err != nil {
			return err
		}
		out = result
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "settlement", "settle", "failed: "+err.Error())
		return models.DriverSettlement{}, err
	}
	utils.LogEventf(s.RequestID, "settlement", "settle", "driver_id=%d deducted=%s net=%s advances=%d",
		out.DriverID, utils.FormatMoney(out.AdvanceDeducted), utils.FormatMoney(out.NetPayable), len(out.DeductedAdvanceIDs))
	return out, nil
}

type RecordFuelInput struct {
	Actor         domain.RequestContext
	DriverID      int64 // ignored for driver accounts
	Amount        float64
	Liters        *float64
	PricePerLiter *float64
	Station       string
	ReceiptRef    string
	EntryDate     time.Time
}

// RecordFuel stores a fuel expense against a driver.
func (s SettlementService) RecordFuel(ctx context.Context, in RecordFuelInput) (models.FuelEntry, error) {
	if err := requireActor(in.Actor); err != nil {
		return models.FuelEntry{}, err
	}
	driverID, err := scopeDriver(in.Actor, in.DriverID)
	if err != nil {
		return models.FuelEntry{}, err
	}
	if !validAmount(in.Amount) {
		return models.FuelEntry{}, domain.ValidationError{Field: "amount", Msg: "fuel amount must be greater than 0"}
	}
	if in.Liters != nil && !validAmount(*in.Liters) {
		return models.FuelEntry{}, domain.ValidationError{Field: "liters", Msg: "liters must be greater than 0"}
	}
	if in.PricePerLiter != nil && !validAmount(*in.PricePerLiter) {
		return models.FuelEntry{}, domain.ValidationError{Field: "price_per_liter", Msg: "price per liter must be greater than 0"}
	}
	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = s.now()
	}

	var out models.FuelEntry
	err = s.inTx(ctx, func(r txRepos) error {
		driver, err := r.drivers.GetByID(ctx, in.Actor.OwnerID, driverID)
		if err != nil {
			return err
		}
		f := models.FuelEntry{
			OwnerID:       in.Actor.OwnerID,
			DriverID:      driver.ID,
			Amount:        in.Amount,
			Liters:        in.Liters,
			PricePerLiter: in.PricePerLiter,
			Station:       utils.Truncate(strings.TrimSpace(in.Station), 120),
			ReceiptRef:    utils.Truncate(strings.TrimSpace(in.ReceiptRef), 120),
			EntryDate:     entryDate,
		}
		id, err := r.fuel.Insert(ctx, f)
		if err != nil {
			return err
		}
		f.ID = id

		if err := s.writeAudit(ctx, r, in.Actor, auditRecord{
			entity:   domain.EntityFuel,
			entityID: id,
			action:   domain.ActionCreate,
			reason:   "fuel recorded",
			newValue: toJSON(f),
		}); err != nil {
			return err
		}
		out = f
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "fuel", "record", "failed: "+err.Error())
		return models.FuelEntry{}, err
	}
	return out, nil
}

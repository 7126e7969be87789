package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
	"github.com/UpwanSingh/FleetControl-sub002/internal/utils"
)

// UpdateCompanyRate changes what a company pays per bag. Existing trips keep
// the rate they were created with.
func (s SettlementService) UpdateCompanyRate(ctx context.Context, actor domain.RequestContext, companyID int64, rate float64, reason string) (models.Company, error) {
	if err := requireOwner(actor, "change a company rate"); err != nil {
		return models.Company{}, err
	}
	if companyID <= 0 {
		return models.Company{}, domain.ValidationError{Field: "company_id", Msg: "company is required"}
	}
	if !validAmount(rate) {
		return models.Company{}, domain.ValidationError{Field: "rate_per_bag", Msg: "rate per bag must be greater than 0"}
	}

	var out models.Company
	err := s.inTx(ctx, func(r txRepos) error {
		cur, err := r.companies.GetByIDForUpdate(ctx, actor.OwnerID, companyID)
		if err != nil {
			return err
		}
		if err := r.companies.UpdateRate(ctx, actor.OwnerID, cur.ID, rate); err != nil {
			return err
		}
		if err := s.writeAudit(ctx, r, actor, auditRecord{
			entity:   domain.EntityCompany,
			entityID: cur.ID,
			action:   domain.ActionUpdate,
			reason:   orDefault(reason, "company rate changed"),
			original: "ratePerBag=" + utils.FormatMoney(cur.RatePerBag),
			newValue: "ratePerBag=" + utils.FormatMoney(rate),
		}); err != nil {
			return err
		}
		out = cur
		out.RatePerBag = rate
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "company", "update_rate", "failed: "+err.Error())
		return models.Company{}, err
	}
	return out, nil
}

// ReplaceRateSlabs swaps the owner's whole slab set in one step. The audit
// row uses entity id 0 because it describes the set, not one slab.
func (s SettlementService) ReplaceRateSlabs(ctx context.Context, actor domain.RequestContext, slabs []models.DriverRateSlab, reason string) ([]models.DriverRateSlab, error) {
	if err := requireOwner(actor, "change rate slabs"); err != nil {
		return nil, err
	}
	if err := models.ValidateSlabs(slabs); err != nil {
		return nil, domain.ValidationError{Field: "slabs", Msg: err.Error()}
	}

	var out []models.DriverRateSlab
	err := s.inTx(ctx, func(r txRepos) error {
		prev, err := r.rates.ListActiveSlabs(ctx, actor.OwnerID)
		if err != nil {
			return err
		}
		if _, err := r.rates.DeactivateAllSlabs(ctx, actor.OwnerID); err != nil {
			return err
		}
		out = make([]models.DriverRateSlab, 0, len(slabs))
		for _, sl := range slabs {
			sl.OwnerID = actor.OwnerID
			sl.IsActive = true
			id, err := r.rates.InsertSlab(ctx, sl)
			if err != nil {
				return err
			}
			sl.ID = id
			out = append(out, sl)
		}
		return s.writeAudit(ctx, r, actor, auditRecord{
			entity:   domain.EntityRateSlab,
			action:   domain.ActionUpdate,
			reason:   orDefault(reason, "rate slabs replaced"),
			original: toJSON(prev),
			newValue: toJSON(out),
		})
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "rates", "replace_slabs", "failed: "+err.Error())
		return nil, err
	}
	utils.LogEventf(s.RequestID, "rates", "replace_slabs", "owner_id=%d slabs=%d", actor.OwnerID, len(out))
	return out, nil
}

func validateLabourRules(rules []models.LabourCostRule) error {
	if len(rules) == 0 {
		return domain.ValidationError{Field: "rules", Msg: "at least one labour rule is required"}
	}
	defaults := 0
	for i, l := range rules {
		if strings.TrimSpace(l.Name) == "" {
			return domain.ValidationError{Field: "rules", Msg: "rule " + strconv.Itoa(i+1) + ": name is required"}
		}
		if l.CostPerBag < 0 {
			return domain.ValidationError{Field: "rules", Msg: "rule " + l.Name + ": cost per bag must not be negative"}
		}
		if l.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return domain.ValidationError{Field: "rules", Msg: "only one labour rule can be the default"}
	}
	return nil
}

// ReplaceLabourRules swaps the owner's labour rules the same way as slabs.
func (s SettlementService) ReplaceLabourRules(ctx context.Context, actor domain.RequestContext, rules []models.LabourCostRule, reason string) ([]models.LabourCostRule, error) {
	if err := requireOwner(actor, "change labour rules"); err != nil {
		return nil, err
	}
	if err := validateLabourRules(rules); err != nil {
		return nil, err
	}

	var out []models.LabourCostRule
	err := s.inTx(ctx, func(r txRepos) error {
		prev, err := r.rates.ListActiveLabourRules(ctx, actor.OwnerID)
		if err != nil {
			return err
		}
		if _, err := r.rates.DeactivateAllLabourRules(ctx, actor.OwnerID); err != nil {
			return err
		}
		out = make([]models.LabourCostRule, 0, len(rules))
		for _, l := range rules {
			l.OwnerID = actor.OwnerID
			l.Name = utils.NormalizeSpace(l.Name)
			l.IsActive = true
			id, err := r.rates.InsertLabourRule(ctx, l)
			if err != nil {
				return err
			}
			l.ID = id
			out = append(out, l)
		}
		return s.writeAudit(ctx, r, actor, auditRecord{
			entity:   domain.EntityLabourRule,
			action:   domain.ActionUpdate,
			reason:   orDefault(reason, "labour rules replaced"),
			original: toJSON(prev),
			newValue: toJSON(out),
		})
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "rates", "replace_labour", "failed: "+err.Error())
		return nil, err
	}
	return out, nil
}

func (s SettlementService) AddDriver(ctx context.Context, actor domain.RequestContext, name, phone string) (models.Driver, error) {
	if err := requireOwner(actor, "add a driver"); err != nil {
		return models.Driver{}, err
	}
	name = utils.NormalizeSpace(name)
	if name == "" {
		return models.Driver{}, domain.ValidationError{Field: "name", Msg: "driver name is required"}
	}
	if len(name) > 120 {
		return models.Driver{}, domain.ValidationError{Field: "name", Msg: "driver name is too long"}
	}

	var out models.Driver
	err := s.inTx(ctx, func(r txRepos) error {
		d := models.Driver{
			OwnerID:   actor.OwnerID,
			Name:      name,
			Phone:     utils.Truncate(strings.TrimSpace(phone), 32),
			IsActive:  true,
			CreatedAt: s.now(),
		}
		id, err := r.drivers.Insert(ctx, d)
		if err != nil {
			return err
		}
		d.ID = id
		if err := s.writeAudit(ctx, r, actor, auditRecord{
			entity:   domain.EntityDriver,
			entityID: id,
			action:   domain.ActionCreate,
			reason:   "driver added",
			newValue: toJSON(d),
		}); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "driver", "add", "failed: "+err.Error())
		return models.Driver{}, err
	}
	return out, nil
}

// DeactivateDriver soft-deletes a driver; history and balances stay intact.
func (s SettlementService) DeactivateDriver(ctx context.Context, actor domain.RequestContext, driverID int64, reason string) (models.Driver, error) {
	return s.setDriverActive(ctx, actor, driverID, false, orDefault(reason, "driver deactivated"))
}

func (s SettlementService) ReactivateDriver(ctx context.Context, actor domain.RequestContext, driverID int64, reason string) (models.Driver, error) {
	return s.setDriverActive(ctx, actor, driverID, true, orDefault(reason, "driver reactivated"))
}

// setDriverActive is a no-op without an audit row when the driver is already
// in the requested state.
func (s SettlementService) setDriverActive(ctx context.Context, actor domain.RequestContext, driverID int64, active bool, reason string) (models.Driver, error) {
	if err := requireOwner(actor, "change a driver's status"); err != nil {
		return models.Driver{}, err
	}
	if driverID <= 0 {
		return models.Driver{}, domain.ValidationError{Field: "driver_id", Msg: "driver is required"}
	}
	action := domain.ActionDeactivate
	if active {
		action = domain.ActionReactivate
	}

	var out models.Driver
	err := s.inTx(ctx, func(r txRepos) error {
		d, err := r.drivers.GetByIDForUpdate(ctx, actor.OwnerID, driverID)
		if err != nil {
			return err
		}
		if d.IsActive == active {
			out = d
			return nil
		}
		if err := r.drivers.SetActive(ctx, actor.OwnerID, d.ID, active); err != nil {
			return err
		}
		if err := s.writeAudit(ctx, r, actor, auditRecord{
			entity:   domain.EntityDriver,
			entityID: d.ID,
			action:   action,
			reason:   reason,
			original: activeValue(d.IsActive),
			newValue: activeValue(active),
		}); err != nil {
			return err
		}
		d.IsActive = active
		out = d
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "driver", strings.ToLower(string(action)), "failed: "+err.Error())
		return models.Driver{}, err
	}
	return out, nil
}

func activeValue(v bool) string {
	if v {
		return "isActive=true"
	}
	return "isActive=false"
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
	"github.com/UpwanSingh/FleetControl-sub002/internal/repositories"
	"github.com/UpwanSingh/FleetControl-sub002/internal/utils"
)

type companyRateRequest struct {
	RatePerBag float64 `json:"rate_per_bag"`
	Reason     string  `json:"reason"`
}

type slabPayload struct {
	MinDistance float64  `json:"min_distance"`
	MaxDistance *float64 `json:"max_distance"`
	RatePerBag  float64  `json:"rate_per_bag"`
}

type replaceSlabsRequest struct {
	Slabs  []slabPayload `json:"slabs"`
	Reason string        `json:"reason"`
}

type labourRulePayload struct {
	Name       string  `json:"name"`
	CostPerBag float64 `json:"cost_per_bag"`
	IsDefault  bool    `json:"is_default"`
}

type replaceLabourRequest struct {
	Rules  []labourRulePayload `json:"rules"`
	Reason string              `json:"reason"`
}

func (h Handler) UpdateCompanyRate(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req companyRateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	company, err := h.settlement(c).UpdateCompanyRate(c.Request.Context(), rc, id, req.RatePerBag, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h Handler) GetRateSlabs(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	rates := repositories.RateRepository{DB: h.DB}
	slabs, err := rates.ListActiveSlabs(c.Request.Context(), rc.OwnerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	rules, err := rates.ListActiveLabourRules(c.Request.Context(), rc.OwnerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slabs": slabs, "labour_rules": rules})
}

func (h Handler) ReplaceRateSlabs(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	var req replaceSlabsRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	slabs := make([]models.DriverRateSlab, 0, len(req.Slabs))
	for _, p := range req.Slabs {
		slabs = append(slabs, models.DriverRateSlab{
			MinDistance: p.MinDistance,
			MaxDistance: p.MaxDistance,
			RatePerBag:  p.RatePerBag,
			IsActive:    true,
		})
	}
	out, err := h.settlement(c).ReplaceRateSlabs(c.Request.Context(), rc, slabs, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handler) ReplaceLabourRules(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	var req replaceLabourRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rules := make([]models.LabourCostRule, 0, len(req.Rules))
	for _, p := range req.Rules {
		rules = append(rules, models.LabourCostRule{
			Name:       p.Name,
			CostPerBag: p.CostPerBag,
			IsDefault:  p.IsDefault,
			IsActive:   true,
		})
	}
	out, err := h.settlement(c).ReplaceLabourRules(c.Request.Context(), rc, rules, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ResolveRate shows which driver rate a distance would snapshot today.
func (h Handler) ResolveRate(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	raw := strings.TrimSpace(c.Query("distance_km"))
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid distance_km", err)
		return
	}
	resolver := h.resolver()
	rate, err := resolver.ResolveDriverRate(c.Request.Context(), rc.OwnerID, d)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	labour, err := resolver.ResolveLabourCost(c.Request.Context(), rc.OwnerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"distance_km":         d,
		"distance":            utils.FormatKm(d),
		"driver_rate_per_bag": rate,
		"labour_cost_per_bag": labour,
	})
}

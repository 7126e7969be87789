package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/repositories"
	"github.com/UpwanSingh/FleetControl-sub002/internal/services"
)

type createDriverRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type issueAdvanceRequest struct {
	Amount   float64 `json:"amount"`
	IssuedAt string  `json:"issued_at"`
	Note     string  `json:"note"`
}

type recordFuelRequest struct {
	Amount        float64  `json:"amount"`
	Liters        *float64 `json:"liters"`
	PricePerLiter *float64 `json:"price_per_liter"`
	Station       string   `json:"station"`
	ReceiptRef    string   `json:"receipt_ref"`
	EntryDate     string   `json:"entry_date"`
}

type settleRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (h Handler) GetDrivers(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	activeOnly := strings.EqualFold(strings.TrimSpace(c.Query("active")), "true")
	drivers, err := repositories.DriverRepository{DB: h.DB}.List(c.Request.Context(), rc.OwnerID, activeOnly)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

func (h Handler) CreateDriver(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	var req createDriverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d, err := h.settlement(c).AddDriver(c.Request.Context(), rc, req.Name, req.Phone)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// readReason accepts an empty body.
func readReason(c *gin.Context) (string, bool) {
	if c.Request.ContentLength == 0 {
		return "", true
	}
	var req reasonRequest
	if !BindJSONOrError(c, &req) {
		return "", false
	}
	return req.Reason, true
}

func (h Handler) DeactivateDriver(c *gin.Context) {
	h.setDriverActive(c, false)
}

func (h Handler) ReactivateDriver(c *gin.Context) {
	h.setDriverActive(c, true)
}

func (h Handler) setDriverActive(c *gin.Context, active bool) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reason, ok := readReason(c)
	if !ok {
		return
	}
	svc := h.settlement(c)
	op := svc.DeactivateDriver
	if active {
		op = svc.ReactivateDriver
	}
	d, err := op(c.Request.Context(), rc, id, reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h Handler) IssueAdvance(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req issueAdvanceRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	issuedAt, ok := h.optionalTime(c, "issued_at", req.IssuedAt)
	if !ok {
		return
	}
	receipt, err := h.settlement(c).IssueAdvance(c.Request.Context(), services.IssueAdvanceInput{
		Actor:    rc,
		DriverID: id,
		Amount:   req.Amount,
		IssuedAt: issuedAt,
		Note:     req.Note,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h Handler) RecordFuel(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req recordFuelRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	entryDate, ok := h.optionalTime(c, "entry_date", req.EntryDate)
	if !ok {
		return
	}
	entry, err := h.settlement(c).RecordFuel(c.Request.Context(), services.RecordFuelInput{
		Actor:         rc,
		DriverID:      id,
		Amount:        req.Amount,
		Liters:        req.Liters,
		PricePerLiter: req.PricePerLiter,
		Station:       req.Station,
		ReceiptRef:    req.ReceiptRef,
		EntryDate:     entryDate,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetNetPayable previews a settlement without consuming any advance.
func (h Handler) GetNetPayable(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	driverID, ok := driverScope(c, rc, id)
	if !ok {
		return
	}
	rng, ok := h.dateRangeQuery(c)
	if !ok {
		return
	}
	res, err := h.driverCalculator().CalculateNetPayable(c.Request.Context(), rc.OwnerID, driverID, rng)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": rng, "settlement": res})
}

func (h Handler) SettleDriver(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req settleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rng, ok := h.inclusiveRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	res, err := h.settlement(c).Settle(c.Request.Context(), services.SettleInput{
		Actor:    rc,
		DriverID: id,
		Range:    rng,
		Reason:   req.Reason,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": rng, "settlement": res})
}

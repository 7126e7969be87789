package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/utils"
)

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: name, Msg: "must be a number", Err: err})
		return 0, false
	}
	return v, true
}

// ProfitReport is the owner's P&L for start_date..end_date.
func (h Handler) ProfitReport(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	rng, ok := h.dateRangeQuery(c)
	if !ok {
		return
	}
	sum, err := h.ownerCalculator().CalculateProfitSummary(c.Request.Context(), rc.OwnerID, rng)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": rng, "summary": sum})
}

func (h Handler) MonthlyReport(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	now := h.now().In(h.loc())
	year, ok := queryInt(c, "year", now.Year())
	if !ok {
		return
	}
	month, ok := queryInt(c, "month", int(now.Month()))
	if !ok {
		return
	}
	sum, err := h.aggregation().OwnerMonthly(c.Request.Context(), rc.OwnerID, year, time.Month(month))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": month, "summary": sum})
}

// DailyReport defaults to today when no date is given.
func (h Handler) DailyReport(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	agg := h.aggregation()
	day := agg.TodayRange().Start
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		t, err := utils.ParseDate(raw, h.loc())
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "date", Msg: "use YYYY-MM-DD", Err: err})
			return
		}
		day = t
	}
	sum, err := agg.OwnerDaily(c.Request.Context(), rc.OwnerID, day)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": utils.FormatDate(day), "summary": sum})
}

func (h Handler) YearlyReport(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	year, ok := queryInt(c, "year", h.now().In(h.loc()).Year())
	if !ok {
		return
	}
	months, err := h.aggregation().MonthlyBreakdown(c.Request.Context(), rc.OwnerID, year)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "months": months})
}

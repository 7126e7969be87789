package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
	"github.com/UpwanSingh/FleetControl-sub002/internal/http/middleware"
	"github.com/UpwanSingh/FleetControl-sub002/internal/services"
	"github.com/UpwanSingh/FleetControl-sub002/internal/utils"
)

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// actor returns the authenticated caller or answers 401.
func actor(c *gin.Context) (domain.RequestContext, bool) {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "not authenticated", nil)
		return domain.RequestContext{}, false
	}
	return rc, true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

// driverScope resolves which driver a request may look at: owners pick any,
// drivers only themselves.
func driverScope(c *gin.Context, rc domain.RequestContext, driverID int64) (int64, bool) {
	if rc.IsOwner() {
		return driverID, true
	}
	if driverID != 0 && driverID != rc.DriverID {
		RespondDomainError(c, domain.ForbiddenError{Action: "view another driver"})
		return 0, false
	}
	return rc.DriverID, true
}

// dateRangeQuery reads start_date/end_date as inclusive calendar days.
// Missing values default to the current month.
func (h Handler) dateRangeQuery(c *gin.Context) (models.DateRange, bool) {
	startRaw := strings.TrimSpace(c.Query("start_date"))
	endRaw := strings.TrimSpace(c.Query("end_date"))
	if startRaw == "" && endRaw == "" {
		now := h.now().In(h.loc())
		rng, _ := services.MonthRange(now.Year(), now.Month(), h.loc())
		return rng, true
	}
	return h.inclusiveRange(c, startRaw, endRaw)
}

// inclusiveRange parses two YYYY-MM-DD days into [start 00:00, day after end 00:00).
func (h Handler) inclusiveRange(c *gin.Context, startRaw, endRaw string) (models.DateRange, bool) {
	startRaw, endRaw = strings.TrimSpace(startRaw), strings.TrimSpace(endRaw)
	if startRaw == "" || endRaw == "" {
		RespondDomainError(c, domain.ValidationError{Field: "start_date", Msg: "start_date and end_date are both required"})
		return models.DateRange{}, false
	}
	start, err := utils.ParseDate(startRaw, h.loc())
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "start_date", Msg: "use YYYY-MM-DD", Err: err})
		return models.DateRange{}, false
	}
	end, err := utils.ParseDate(endRaw, h.loc())
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "end_date", Msg: "use YYYY-MM-DD", Err: err})
		return models.DateRange{}, false
	}
	rng, err := services.InclusiveDays(start, end)
	if err != nil {
		RespondDomainError(c, err)
		return models.DateRange{}, false
	}
	return rng, true
}

func (h Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// optionalTime parses an optional date or datetime field from a payload.
func (h Handler) optionalTime(c *gin.Context, field, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := utils.ParseDateTime(raw, h.loc())
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: field, Msg: "use YYYY-MM-DD or RFC3339", Err: err})
		return time.Time{}, false
	}
	return t, true
}

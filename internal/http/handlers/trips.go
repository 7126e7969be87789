package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
	"github.com/UpwanSingh/FleetControl-sub002/internal/repositories"
	"github.com/UpwanSingh/FleetControl-sub002/internal/services"
)

type createTripRequest struct {
	CorrelationID    string `json:"correlation_id"`
	DriverID         int64  `json:"driver_id"`
	ClientID         int64  `json:"client_id"`
	PickupLocationID int64  `json:"pickup_location_id"`
	BagCount         int    `json:"bag_count"`
	Status           string `json:"status"`
	TripDate         string `json:"trip_date"`
}

type overrideTripRequest struct {
	BagCount        *int    `json:"bag_count"`
	Status          *string `json:"status"`
	ExpectedVersion int64   `json:"expected_version"`
	Reason          string  `json:"reason"`
}

type verifyTripRequest struct {
	ExpectedVersion int64  `json:"expected_version"`
	Reason          string `json:"reason"`
}

func (h Handler) CreateTrip(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	var req createTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	var status domain.TripStatus
	if strings.TrimSpace(req.Status) != "" {
		st, err := domain.ParseTripStatus(req.Status)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		status = st
	}
	tripDate, ok := h.optionalTime(c, "trip_date", req.TripDate)
	if !ok {
		return
	}

	trip, err := h.settlement(c).CreateTrip(c.Request.Context(), services.CreateTripInput{
		Actor:            rc,
		CorrelationID:    req.CorrelationID,
		DriverID:         req.DriverID,
		ClientID:         req.ClientID,
		PickupLocationID: req.PickupLocationID,
		BagCount:         req.BagCount,
		Status:           status,
		TripDate:         tripDate,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.WithCalc(trip))
}

func (h Handler) OverrideTrip(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req overrideTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	in := services.OverrideTripInput{
		Actor:           rc,
		TripID:          id,
		BagCount:        req.BagCount,
		ExpectedVersion: req.ExpectedVersion,
		Reason:          req.Reason,
	}
	if req.Status != nil {
		st, err := domain.ParseTripStatus(*req.Status)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		in.Status = &st
	}

	trip, err := h.settlement(c).OverrideTrip(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WithCalc(trip))
}

func (h Handler) VerifyTrip(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req verifyTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	trip, err := h.settlement(c).VerifyTrip(c.Request.Context(), rc, id, req.ExpectedVersion, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WithCalc(trip))
}

// GetTrips lists trips for the range; drivers only see their own.
func (h Handler) GetTrips(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	rng, ok := h.dateRangeQuery(c)
	if !ok {
		return
	}
	var driverID int64
	if raw := strings.TrimSpace(c.Query("driver_id")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid driver_id", err)
			return
		}
		driverID = v
	}
	driverID, ok = driverScope(c, rc, driverID)
	if !ok {
		return
	}

	repo := repositories.TripsRepository{DB: h.DB}
	var (
		trips []models.Trip
		err   error
	)
	if driverID > 0 {
		trips, err = repo.ListByDriverRange(c.Request.Context(), rc.OwnerID, driverID, rng)
	} else {
		trips, err = repo.ListByRange(c.Request.Context(), rc.OwnerID, rng)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]models.TripWithCalc, 0, len(trips))
	for _, t := range trips {
		out = append(out, models.WithCalc(t))
	}
	c.JSON(http.StatusOK, out)
}

func (h Handler) GetTripByID(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	trip, err := repositories.TripsRepository{DB: h.DB}.GetByID(c.Request.Context(), rc.OwnerID, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !rc.IsOwner() && trip.DriverID != rc.DriverID {
		RespondDomainError(c, domain.NotFoundError{Resource: "trip", ID: id})
		return
	}
	c.JSON(http.StatusOK, models.WithCalc(trip))
}

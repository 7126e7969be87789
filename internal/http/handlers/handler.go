package handlers

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/http/middleware"
	"github.com/UpwanSingh/FleetControl-sub002/internal/repositories"
	"github.com/UpwanSingh/FleetControl-sub002/internal/services"
)

// Handler holds what every endpoint needs. Services are built per request so
// each one logs with that request's id.
type Handler struct {
	DB        *sql.DB
	Location  *time.Location
	Now       func() time.Time
	JWTSecret []byte
	TokenTTL  time.Duration
}

func (h Handler) loc() *time.Location {
	if h.Location != nil {
		return h.Location
	}
	return time.Local
}

func (h Handler) settlement(c *gin.Context) services.SettlementService {
	return services.SettlementService{
		DB:        h.DB,
		RequestID: middleware.GetRequestID(c),
		Now:       h.Now,
	}
}

func (h Handler) driverCalculator() services.DriverEarningsCalculator {
	return services.DriverEarningsCalculator{
		Trips:    repositories.TripsRepository{DB: h.DB},
		Fuel:     repositories.FuelRepository{DB: h.DB},
		Advances: repositories.AdvanceRepository{DB: h.DB},
	}
}

func (h Handler) ownerCalculator() services.OwnerProfitCalculator {
	return services.OwnerProfitCalculator{Trips: repositories.TripsRepository{DB: h.DB}}
}

func (h Handler) aggregation() services.AggregationService {
	return services.AggregationService{
		Owner:    h.ownerCalculator(),
		Driver:   h.driverCalculator(),
		Location: h.loc(),
		Now:      h.Now,
	}
}

func (h Handler) resolver() services.RateResolver {
	return services.RateResolver{Rates: repositories.RateRepository{DB: h.DB}}
}

func (h Handler) auth(c *gin.Context) services.AuthService {
	return services.AuthService{
		DB:        h.DB,
		Secret:    h.JWTSecret,
		TokenTTL:  h.TokenTTL,
		RequestID: middleware.GetRequestID(c),
		Now:       h.Now,
	}
}

func (h Handler) docs(c *gin.Context) services.DocsService {
	return services.DocsService{
		Drivers:     repositories.DriverRepository{DB: h.DB},
		Earnings:    h.driverCalculator(),
		Aggregation: h.aggregation(),
		RequestID:   middleware.GetRequestID(c),
		Now:         h.Now,
	}
}

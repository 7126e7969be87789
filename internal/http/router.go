package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	intconfig "github.com/UpwanSingh/FleetControl-sub002/internal/config"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	h "github.com/UpwanSingh/FleetControl-sub002/internal/http/handlers"
	"github.com/UpwanSingh/FleetControl-sub002/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, db *sql.DB) *gin.Engine {
	hd := h.Handler{
		DB:        db,
		Location:  env.Location,
		JWTSecret: []byte(env.JWTSecret),
		TokenTTL:  env.TokenTTL,
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", hd.Login)
		auth.POST("/register", hd.Register)

		secured := api.Group("")
		secured.Use(middleware.Auth(hd.JWTSecret))
		owner := secured.Group("")
		owner.Use(middleware.RequireRoles(domain.RoleOwner))

		// Trips
		secured.POST("/trips", hd.CreateTrip)
		secured.GET("/trips", hd.GetTrips)
		secured.GET("/trips/:id", hd.GetTripByID)
		owner.PUT("/trips/:id/override", hd.OverrideTrip)
		owner.PUT("/trips/:id/verify", hd.VerifyTrip)

		// Drivers and their ledger
		owner.GET("/drivers", hd.GetDrivers)
		owner.POST("/drivers", hd.CreateDriver)
		owner.PUT("/drivers/:id/deactivate", hd.DeactivateDriver)
		owner.PUT("/drivers/:id/reactivate", hd.ReactivateDriver)
		owner.POST("/drivers/:id/account", hd.CreateDriverLogin)
		owner.POST("/drivers/:id/advances", hd.IssueAdvance)
		owner.POST("/drivers/:id/settlements", hd.SettleDriver)
		secured.POST("/drivers/:id/fuel", hd.RecordFuel)
		secured.GET("/drivers/:id/net-payable", hd.GetNetPayable)
		secured.GET("/drivers/:id/settlement-slip.pdf", hd.SettlementSlipPDF)

		// Rate configuration
		owner.PUT("/companies/:id/rate", hd.UpdateCompanyRate)
		secured.GET("/rate-slabs", hd.GetRateSlabs)
		secured.GET("/rate-slabs/resolve", hd.ResolveRate)
		owner.PUT("/rate-slabs", hd.ReplaceRateSlabs)
		owner.PUT("/labour-rules", hd.ReplaceLabourRules)

		// Reports
		reports := owner.Group("/reports")
		reports.GET("/profit", hd.ProfitReport)
		reports.GET("/monthly", hd.MonthlyReport)
		reports.GET("/daily", hd.DailyReport)
		reports.GET("/yearly", hd.YearlyReport)
		reports.GET("/yearly/export.xlsx", hd.YearlyReportXLSX)

		owner.GET("/audit-logs", hd.GetAuditLogs)
	}

	return r
}

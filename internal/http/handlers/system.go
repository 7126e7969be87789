package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	intconfig "github.com/UpwanSingh/FleetControl-sub002/internal/config"
	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "fleet ledger running"})
}

// DBCheck pings the pool and reports whether the ledger tables exist.
func (h Handler) DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(c.Request.Context(), h.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unreachable: " + err.Error()})
		return
	}
	tables := gin.H{}
	ready := true
	for _, t := range []string{"companies", "clients", "pickup_locations", "drivers", "trips", "advances", "fuel_entries", "driver_rate_slabs", "labour_cost_rules", "audit_logs", "users"} {
		ok := intdb.HasTable(c.Request.Context(), h.DB, t)
		tables[t] = ok
		ready = ready && ok
	}
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"message": "database connection OK", "schema_ready": ready, "tables": tables})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}

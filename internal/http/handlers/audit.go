package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/repositories"
)

func (h Handler) GetAuditLogs(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	var f repositories.AuditFilter
	if raw := strings.TrimSpace(c.Query("entity_type")); raw != "" {
		t, err := domain.ParseEntityType(raw)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		f.EntityType = t
	}
	if raw := strings.TrimSpace(c.Query("action")); raw != "" {
		a, err := domain.ParseAuditAction(raw)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		f.Action = a
	}
	if raw := strings.TrimSpace(c.Query("entity_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			RespondError(c, http.StatusBadRequest, "invalid entity_id", err)
			return
		}
		f.EntityID = id
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	size, ok := queryInt(c, "page_size", 50)
	if !ok {
		return
	}
	f.Page = domain.Pagination{Page: page, PageSize: size}

	logs, err := repositories.AuditRepository{DB: h.DB}.List(c.Request.Context(), rc.OwnerID, f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs, "page": f.Page.Page, "pageSize": f.Page.Limit()})
}

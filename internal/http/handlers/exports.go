package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /api/drivers/:id/settlement-slip.pdf?start_date=&end_date=
func (h Handler) SettlementSlipPDF(c *gin.Context) {
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
	pdfBytes, filename, err := h.docs(c).SettlementSlipPDF(c.Request.Context(), rc.OwnerID, driverID, rng)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/reports/yearly/export.xlsx?year=
func (h Handler) YearlyReportXLSX(c *gin.Context) {
	rc, ok := actor(c)
	if !ok {
		return
	}
	year, ok := queryInt(c, "year", h.now().In(h.loc()).Year())
	if !ok {
		return
	}
	data, filename, err := h.docs(c).YearlyReportXLSX(c.Request.Context(), rc.OwnerID, year)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

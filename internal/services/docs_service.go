package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"github.com/xuri/excelize/v2"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
	"github.com/UpwanSingh/FleetControl-sub002/internal/utils"
)

type DriverGetter interface {
	GetByID(ctx context.Context, ownerID, id int64) (models.Driver, error)
}

// DocsService renders settlement slips (PDF) and yearly profit workbooks (XLSX).
type DocsService struct {
	Drivers     DriverGetter
	Earnings    DriverEarningsCalculator
	Aggregation AggregationService
	RequestID   string
	Now         func() time.Time
}

type settlementSlipData struct {
	Driver      models.Driver
	Range       models.DateRange
	Settlement  models.DriverSettlement
	GeneratedAt time.Time
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// SettlementSlipPDF renders the net payable preview for a driver and period.
func (s DocsService) SettlementSlipPDF(ctx context.Context, ownerID, driverID int64, rng models.DateRange) ([]byte, string, error) {
	d, err := s.Drivers.GetByID(ctx, ownerID, driverID)
	if err != nil {
		return nil, "", err
	}
	res, err := s.Earnings.CalculateNetPayable(ctx, ownerID, driverID, rng)
	if err != nil {
		return nil, "", err
	}
	utils.LogEventf(s.RequestID, "docs", "settlement_slip", "driver_id=%d", driverID)
	return buildSettlementSlipPDF(settlementSlipData{Driver: d, Range: rng, Settlement: res, GeneratedAt: s.now()})
}

// YearlyReportXLSX renders the owner's twelve monthly summaries.
func (s DocsService) YearlyReportXLSX(ctx context.Context, ownerID int64, year int) ([]byte, string, error) {
	months, err := s.Aggregation.MonthlyBreakdown(ctx, ownerID, year)
	if err != nil {
		return nil, "", err
	}
	utils.LogEventf(s.RequestID, "docs", "yearly_report", "owner_id=%d year=%d", ownerID, year)
	return buildYearlyReportXLSX(year, months)
}

func slipReference(d settlementSlipData) string {
	return fmt.Sprintf("SLIP-%d-%s-%s", d.Driver.ID, d.Range.Start.Format("20060102"), d.Range.End.Format("20060102"))
}

func buildSettlementSlipPDF(d settlementSlipData) ([]byte, string, error) {
	ref := slipReference(d)
	// last covered day; the range end is exclusive
	lastDay := d.Range.End.AddDate(0, 0, -1)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Settlement Slip", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DRIVER SETTLEMENT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		fmt.Sprintf("Driver      : %s", safe(d.Driver.Name, "-")),
		fmt.Sprintf("Phone       : %s", safe(d.Driver.Phone, "-")),
		fmt.Sprintf("Period      : %s to %s", utils.FormatDate(d.Range.Start), utils.FormatDate(lastDay)),
		fmt.Sprintf("Reference   : %s", ref),
		fmt.Sprintf("Generated   : %s", utils.FormatDateTime(d.GeneratedAt)),
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	st := d.Settlement
	rows := [][2]string{
		{"Gross earnings", utils.FormatMoney(st.GrossEarnings)},
		{"Fuel", "-" + utils.FormatMoney(st.FuelCost)},
		{"Advance deduction", "-" + utils.FormatMoney(st.AdvanceDeducted)},
		{"Net payable", utils.FormatMoney(st.NetPayable)},
		{"Advance still outstanding", utils.FormatMoney(st.RemainingAdvanceBalance)},
	}
	for i, r := range rows {
		style := ""
		if i == 3 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 12)
		pdf.CellFormat(90, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, r[1], "1", 1, "R", false, 0, "")
	}

	png, err := qrcode.Encode(ref, qrcode.Medium, 256)
	if err != nil {
		return nil, "", err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(ref, opts, bytes.NewReader(png))
	pdf.ImageOptions(ref, 150, 20, 40, 40, false, opts, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Preview only. Advances are deducted when the owner commits the settlement.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s_%s.pdf", ref, safeFilenamePart(d.Driver.Name))
	return buf.Bytes(), filename, nil
}

var yearlyHeaders = []string{"Month", "Trips", "Bags", "Gross revenue", "Driver earnings", "Labour cost", "Net profit", "Margin %"}

func buildYearlyReportXLSX(year int, months []MonthlyProfit) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Profit %d", year)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}
	for i, h := range yearlyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	var total models.ProfitSummary
	row := 2
	for _, m := range months {
		s := m.Summary
		writeProfitRow(f, sheet, row, time.Month(m.Month).String(), s)
		total.GrossRevenue += s.GrossRevenue
		total.DriverEarnings += s.DriverEarnings
		total.LabourCost += s.LabourCost
		total.TripCount += s.TripCount
		total.TotalBags += s.TotalBags
		row++
	}
	writeProfitRow(f, sheet, row, "Total", models.FinishProfitSummary(total))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("PROFIT_%d.xlsx", year), nil
}

func writeProfitRow(f *excelize.File, sheet string, row int, label string, s models.ProfitSummary) {
	values := []any{label, s.TripCount, s.TotalBags, s.GrossRevenue, s.DriverEarnings, s.LabourCost, s.NetProfit, s.ProfitMargin}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

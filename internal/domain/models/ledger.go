package models

import (
	"time"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
)

// AuditLogEntry is append-only. Reason and CreatedAt are mandatory.
type AuditLogEntry struct {
	ID            int64              `json:"id"`
	OwnerID       int64              `json:"ownerId"`
	EntityType    domain.EntityType  `json:"entityType"`
	EntityID      int64              `json:"entityId"`
	Action        domain.AuditAction `json:"action"`
	PerformedBy   string             `json:"performedBy"`
	Reason        string             `json:"reason"`
	OriginalValue string             `json:"originalValue,omitempty"`
	NewValue      string             `json:"newValue,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// DriverSettlement is the computed outcome of a net payable preview or a
// committed settlement. It is never persisted as a row.
type DriverSettlement struct {
	DriverID                int64   `json:"driverId"`
	GrossEarnings           float64 `json:"grossEarnings"`
	FuelCost                float64 `json:"fuelCost"`
	AdvanceDeducted         float64 `json:"advanceDeducted"`
	NetPayable              float64 `json:"netPayable"`
	RemainingAdvanceBalance float64 `json:"remainingAdvanceBalance"`
	DeductedAdvanceIDs      []int64 `json:"deductedAdvanceIds,omitempty"`
}

// ProfitSummary is the owner's P&L over a range. Fuel and advances never feed it.
type ProfitSummary struct {
	GrossRevenue   float64 `json:"grossRevenue"`
	DriverEarnings float64 `json:"driverEarnings"`
	LabourCost     float64 `json:"labourCost"`
	NetProfit      float64 `json:"netProfit"`
	TripCount      int     `json:"tripCount"`
	TotalBags      int     `json:"totalBags"`
	ProfitMargin   float64 `json:"profitMargin"`
}

package models

import (
	"math"
	"time"
)

type Driver struct {
	ID             int64     `json:"id"`
	OwnerID        int64     `json:"ownerId"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	IsActive       bool      `json:"isActive"`
	AdvanceBalance float64   `json:"advanceBalance"` // cached sum of undeducted advances
	CreatedAt      time.Time `json:"createdAt"`
}

// Company pays the owner per bag delivered.
type Company struct {
	ID         int64   `json:"id"`
	OwnerID    int64   `json:"ownerId"`
	Name       string  `json:"name"`
	RatePerBag float64 `json:"ratePerBag"`
	IsActive   bool    `json:"isActive"`
}

// Client is a delivery destination. DistanceKm is measured from the pickup point.
type Client struct {
	ID         int64   `json:"id"`
	OwnerID    int64   `json:"ownerId"`
	CompanyID  int64   `json:"companyId"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distanceKm"`
}

type PickupLocation struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"ownerId"`
	Name    string `json:"name"`
}

// DriverRateSlab maps the band [MinDistance, MaxDistance) to a rate per bag.
// A nil MaxDistance is unbounded.
type DriverRateSlab struct {
	ID          int64    `json:"id"`
	OwnerID     int64    `json:"ownerId"`
	MinDistance float64  `json:"minDistance"`
	MaxDistance *float64 `json:"maxDistance"`
	RatePerBag  float64  `json:"ratePerBag"`
	IsActive    bool     `json:"isActive"`
}

// Upper returns the exclusive upper edge, +Inf when unbounded.
func (s DriverRateSlab) Upper() float64 {
	if s.MaxDistance == nil {
		return math.Inf(1)
	}
	return *s.MaxDistance
}

// Contains reports whether d falls in [MinDistance, MaxDistance).
func (s DriverRateSlab) Contains(d float64) bool {
	return s.MinDistance <= d && d < s.Upper()
}

type LabourCostRule struct {
	ID         int64   `json:"id"`
	OwnerID    int64   `json:"ownerId"`
	Name       string  `json:"name"`
	CostPerBag float64 `json:"costPerBag"`
	IsDefault  bool    `json:"isDefault"`
	IsActive   bool    `json:"isActive"`
}

// Advance is an immutable ledger entry; it is either outstanding or fully deducted.
type Advance struct {
	ID         int64      `json:"id"`
	OwnerID    int64      `json:"ownerId"`
	DriverID   int64      `json:"driverId"`
	Amount     float64    `json:"amount"`
	IssuedAt   time.Time  `json:"issuedAt"`
	Note       string     `json:"note,omitempty"`
	IsDeducted bool       `json:"isDeducted"`
	DeductedAt *time.Time `json:"deductedAt,omitempty"`
}

// FuelEntry is a driver-paid expense. It only reduces that driver's payable.
type FuelEntry struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"ownerId"`
	DriverID      int64     `json:"driverId"`
	Amount        float64   `json:"amount"`
	Liters        *float64  `json:"liters,omitempty"`
	PricePerLiter *float64  `json:"pricePerLiter,omitempty"`
	Station       string    `json:"station,omitempty"`
	ReceiptRef    string    `json:"receiptRef,omitempty"`
	EntryDate     time.Time `json:"entryDate"`
}

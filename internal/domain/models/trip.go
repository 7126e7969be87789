package models

import (
	"time"

	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
)

// Trip is a delivery of bags with the rates frozen at creation time.
// The derived money values below only ever read the snapshot fields.
type Trip struct {
	ID               int64  `json:"id"`
	CorrelationID    string `json:"correlationId"`
	OwnerID          int64  `json:"ownerId"`
	DriverID         int64  `json:"driverId"`
	CompanyID        int64  `json:"companyId"`
	ClientID         int64  `json:"clientId"`
	PickupLocationID int64  `json:"pickupLocationId"`
	BagCount         int    `json:"bagCount"`

	SnapshotDriverRate       float64 `json:"snapshotDriverRate"`
	SnapshotCompanyRate      float64 `json:"snapshotCompanyRate"`
	SnapshotLabourCostPerBag float64 `json:"snapshotLabourCostPerBag"`
	SnapshotDistanceKm       float64 `json:"snapshotDistanceKm"`

	Status       domain.TripStatus `json:"status"`
	Verified     bool              `json:"verified"`
	Overridden   bool              `json:"overridden"`
	Synced       bool              `json:"synced"`
	SyncAttempts int               `json:"syncAttempts"`
	Version      int64             `json:"version"`

	TripDate  time.Time `json:"tripDate"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Trip) DriverEarning() float64 {
	return float64(t.BagCount) * t.SnapshotDriverRate
}

func (t Trip) OwnerGross() float64 {
	return float64(t.BagCount) * t.SnapshotCompanyRate
}

func (t Trip) LabourCost() float64 {
	return float64(t.BagCount) * t.SnapshotLabourCostPerBag
}

func (t Trip) OwnerNetProfit() float64 {
	return t.OwnerGross() - t.DriverEarning() - t.LabourCost()
}

// TripFinancials is the flat view of a trip's derived values, used by reports
// and by anything mirroring trips elsewhere.
type TripFinancials struct {
	DriverEarning  float64 `json:"driverEarning"`
	OwnerGross     float64 `json:"ownerGross"`
	LabourCost     float64 `json:"labourCost"`
	OwnerNetProfit float64 `json:"ownerNetProfit"`
}

func (t Trip) Financials() TripFinancials {
	return TripFinancials{
		DriverEarning:  t.DriverEarning(),
		OwnerGross:     t.OwnerGross(),
		LabourCost:     t.LabourCost(),
		OwnerNetProfit: t.OwnerNetProfit(),
	}
}

// TripWithCalc pairs a trip with its derived values for API responses.
type TripWithCalc struct {
	Trip
	Calc TripFinancials `json:"calc"`
}

func WithCalc(t Trip) TripWithCalc {
	return TripWithCalc{Trip: t, Calc: t.Financials()}
}

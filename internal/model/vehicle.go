// Package model defines the core domain models used throughout the application.
package model

import (
	"strconv"
	"strings"
)

// RatingCategory is the insurance rating bucket a vehicle is classified into.
type RatingCategory string

// Rating category constants.
const (
	CategoryPPT                    RatingCategory = "PPT"
	CategoryLightTruck             RatingCategory = "Light Truck"
	CategoryMediumTruck            RatingCategory = "Medium Truck"
	CategoryHeavyTruck             RatingCategory = "Heavy Truck"
	CategoryExtraHeavyTruck        RatingCategory = "Extra Heavy Truck"
	CategoryTruckTractorHeavy      RatingCategory = "Truck Tractor (Heavy)"
	CategoryTruckTractorExtraHeavy RatingCategory = "Truck Tractor (Extra Heavy)"
	CategoryTrailer                RatingCategory = "Trailer"
	CategoryUnknown                RatingCategory = "Unknown"
)

// RawVehicle is one uploaded row after column mapping, values as supplied.
type RawVehicle struct {
	VIN             string
	State           string
	City            string
	Zip             string
	GarageTerritory string
	TownCode        string
	CountyCode      string
	TaxTerrCode     string
	VehicleYear     string
	Make            string
	Model           string
	ClassCode       string
	GVW             string
	CostNew         string
}

// VehicleRecord is one row of the working table after merging decoded and
// raw attributes, keyed by normalized VIN. Coverage fields are set by the
// rule engine or operator edits.
type VehicleRecord struct {
	RawVIN      string
	VIN         string // normalized
	VINModified bool

	Decoded         bool
	DecodeErrorCode string
	DecodeErrorText string

	State           string
	City            string
	Zip             string
	GarageTerritory string
	TownCode        string
	CountyCode      string
	TaxTerrCode     string

	VehicleYear  string
	Make         string
	Model        string
	DeclaredType string
	BodyClass    string
	GVWRText     string
	Weight       *int // parsed pounds from GVWRText
	GVW          string
	CostNew      string

	Category        RatingCategory
	ClassCode       string
	VehicleTypeCode string

	OTCDeductible       string
	CollisionDeductible string
	PIP                 string
	AddtlPIP            string
	MedPay              string
	UMUIM               string
	UMPD                string
	ACVOrStatedAmount   string
	AutoLoanLeaseGap    string
	PIPOperatedByEmp    string
	LeasedVehicle       string
	Towing              string

	ZoneTerritoryGaraged     string
	ZoneTerritoryDestination string
	COPrivatePassIndivOwned  string
	TheftSurcharge           string

	RentalReimbursementCov     string
	RentalReimbursementMaxAmt  string
	RentalReimbursementMaxDays string
}

// IsTrailer reports whether the record is a trailer (not a power unit).
func (r *VehicleRecord) IsTrailer() bool {
	return r.Category == CategoryTrailer
}

// IsPPT reports whether the record is private passenger type.
func (r *VehicleRecord) IsPPT() bool {
	return r.Category == CategoryPPT
}

// ModelYearInt parses the vehicle year field. Returns false when the field
// is empty or not numeric.
func (r *VehicleRecord) ModelYearInt() (int, bool) {
	s := strings.TrimSpace(r.VehicleYear)
	if s == "" {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return year, true
}

// CostNewAmount parses the cost-new field, tolerating currency formatting.
// Returns false when the field is empty or not numeric.
func (r *VehicleRecord) CostNewAmount() (float64, bool) {
	s := strings.TrimSpace(r.CostNew)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

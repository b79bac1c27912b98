// Package schedule projects the merged, rule-adjusted record set onto the
// fixed vehicle schedule import schema.
package schedule

import (
	"strconv"
	"strings"

	"github.com/zhangkeAstrus/autoschedule-import/internal/classify"
	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

// Options holds the assembler's constant and default column values.
type Options struct {
	CompGroupNo   string
	MiscCollision string

	// Rental reimbursement defaults applied to PPT rows whose bundle the
	// rule engine or operator did not already set.
	RentalCovOption string
	RentalMaxAmt    string
	RentalMaxDays   string
}

// DefaultOptions returns the standard schedule constants.
func DefaultOptions() Options {
	return Options{
		CompGroupNo:     "1",
		MiscCollision:   "N",
		RentalCovOption: "3",
		RentalMaxAmt:    "75",
		RentalMaxDays:   "30",
	}
}

// Assemble builds the export-ready table: exactly the fixed column set in
// fixed order, one row per record in current ordering, empty strings for
// anything unavailable. Sequence numbers are 1-based and stable for the
// given ordering.
func Assemble(records []model.VehicleRecord, opts Options) *model.ScheduleTable {
	table := &model.ScheduleTable{
		Columns: append([]string(nil), model.ScheduleColumns...),
		Rows:    make([][]string, 0, len(records)),
	}

	for i := range records {
		rec := &records[i]

		typeCode := rec.VehicleTypeCode
		if typeCode == "" {
			typeCode = classify.VehicleTypeCode(rec.ClassCode)
		}

		rentalCov := rec.RentalReimbursementCov
		rentalAmt := rec.RentalReimbursementMaxAmt
		rentalDays := rec.RentalReimbursementMaxDays
		if rec.IsPPT() && rentalCov == "" {
			rentalCov = opts.RentalCovOption
			rentalAmt = opts.RentalMaxAmt
			rentalDays = opts.RentalMaxDays
		}

		row := []string{
			rec.State,
			strconv.Itoa(i + 1),
			rec.City,
			rec.Zip,
			rec.GarageTerritory,
			rec.TownCode,
			rec.CountyCode,
			rec.TaxTerrCode,
			rec.VehicleYear,
			rec.Make,
			rec.Model,
			rec.VIN,
			typeCode,
			opts.CompGroupNo,
			rec.ClassCode,
			rec.ZoneTerritoryGaraged,
			rec.ZoneTerritoryDestination,
			rec.COPrivatePassIndivOwned,
			rec.TheftSurcharge,
			rec.GVW,
			rec.PIP,
			rec.AddtlPIP,
			rec.MedPay,
			rec.UMUIM,
			rec.UMPD,
			presenceFlag(rec.OTCDeductible),
			rec.OTCDeductible,
			rec.ACVOrStatedAmount,
			rec.CostNew,
			presenceFlag(rec.CollisionDeductible),
			rec.CollisionDeductible,
			opts.MiscCollision,
			rec.AutoLoanLeaseGap,
			rec.PIPOperatedByEmp,
			rec.LeasedVehicle,
			rec.Towing,
			rentalCov,
			rentalAmt,
			rentalDays,
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}

// presenceFlag derives the coverage flag from its deductible field.
func presenceFlag(deductible string) string {
	if strings.TrimSpace(deductible) == "" {
		return "N"
	}
	return "Y"
}

package rules

import "github.com/zhangkeAstrus/autoschedule-import/internal/model"

// CoverageValues are operator-chosen values applied uniformly across the
// record set. Empty fields are left untouched so the setter can be run for
// any subset of coverages.
type CoverageValues struct {
	PIP               string
	AddtlPIP          string
	MedPay            string
	UMUIM             string
	UMPD              string
	Towing            string
	ACVOrStatedAmount string
	AutoLoanLeaseGap  string
	PIPOperatedByEmp  string
	LeasedVehicle     string

	// Rental reimbursement bundle, applied to PPT rows only.
	RentalCovOption string
	RentalMaxAmt    string
	RentalMaxDays   string
}

// ApplyCoverage overwrites coverage fields with the given values, honoring
// the category-scoped exceptions: uninsured-motorist fields skip trailers
// and the rental reimbursement bundle applies to PPT only. Overwrite-based,
// so repeated application is a no-op.
func ApplyCoverage(records []model.VehicleRecord, values CoverageValues) {
	for i := range records {
		rec := &records[i]

		setIfPresent(&rec.PIP, values.PIP)
		setIfPresent(&rec.AddtlPIP, values.AddtlPIP)
		setIfPresent(&rec.MedPay, values.MedPay)
		setIfPresent(&rec.Towing, values.Towing)
		setIfPresent(&rec.ACVOrStatedAmount, values.ACVOrStatedAmount)
		setIfPresent(&rec.AutoLoanLeaseGap, values.AutoLoanLeaseGap)
		setIfPresent(&rec.PIPOperatedByEmp, values.PIPOperatedByEmp)
		setIfPresent(&rec.LeasedVehicle, values.LeasedVehicle)

		if !rec.IsTrailer() {
			setIfPresent(&rec.UMUIM, values.UMUIM)
			setIfPresent(&rec.UMPD, values.UMPD)
		}

		if rec.IsPPT() {
			setIfPresent(&rec.RentalReimbursementCov, values.RentalCovOption)
			setIfPresent(&rec.RentalReimbursementMaxAmt, values.RentalMaxAmt)
			setIfPresent(&rec.RentalReimbursementMaxDays, values.RentalMaxDays)
		}
	}
}

func setIfPresent(target *string, value string) {
	if value != "" {
		*target = value
	}
}

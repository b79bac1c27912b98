package model

// ScheduleColumns is the fixed, ordered column schema of the vehicle
// schedule import file. Every export carries exactly these columns;
// unavailable fields are emitted as empty strings, never omitted.
var ScheduleColumns = []string{
	"State",
	"Vehicle Sequence No",
	"City",
	"Zip",
	"Garage Territory",
	"Town Code",
	"County Code",
	"Tax Terr Code",
	"Vehicle Year",
	"Make",
	"Model",
	"Cleaned VIN",
	"Vehicle Type Code",
	"CompGroupNo",
	"Class Code",
	"Zone Territory (Garaged)",
	"Zone Territory (Destination)",
	"CO Private Pass Indiv Owned",
	"Auto Theft Prevention Surcharge",
	"GVW",
	"PIP",
	"Addt'l PIP",
	"Med Pay",
	"UM UIM",
	"UM PD",
	"OTC Coverage",
	"OTC Deductible",
	"ACV or Stated Amount",
	"Cost New",
	"Collision Coverage",
	"Collision Ded",
	"Misc Collision",
	"Auto Loan/Lease Gap Cov",
	"PIP - Operated by Employee",
	"Leased Vehicle",
	"Towing",
	"Rental Reimbursement Cov",
	"Rental Reimbursement Max Amt",
	"Rental Reimbursement Max Days #",
}

// ScheduleTable is the export-ready projection of the working table.
type ScheduleTable struct {
	Columns []string
	Rows    [][]string
}

package schedule

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

func TestAssembleFixedColumns(t *testing.T) {
	table := Assemble(nil, DefaultOptions())

	assert.Len(t, table.Columns, 39, "schema is exactly the fixed column set")
	assert.Equal(t, model.ScheduleColumns, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestAssembleRow(t *testing.T) {
	records := []model.VehicleRecord{
		{
			VIN:                 "1HGCM82633A004352",
			State:               "CO",
			City:                "Denver",
			VehicleYear:         "2023",
			Make:                "HONDA",
			Model:               "Accord",
			Category:            model.CategoryPPT,
			ClassCode:           "739800",
			GVW:                 "4500",
			CostNew:             "45000",
			OTCDeductible:       "5000",
			CollisionDeductible: "5000",
		},
		{
			VIN:       "1XKAD49X0KJ000001",
			Category:  model.CategoryTrailer,
			ClassCode: "684890",
		},
	}

	table := Assemble(records, DefaultOptions())
	require.Len(t, table.Rows, 2)

	col := func(row []string, name string) string {
		for i, c := range table.Columns {
			if c == name {
				return row[i]
			}
		}
		t.Fatalf("column %q not in schema", name)
		return ""
	}

	first := table.Rows[0]
	assert.Equal(t, "1", col(first, "Vehicle Sequence No"))
	assert.Equal(t, "1HGCM82633A004352", col(first, "Cleaned VIN"))
	assert.Equal(t, "1", col(first, "Vehicle Type Code"), "derived from class code")
	assert.Equal(t, "1", col(first, "CompGroupNo"))
	assert.Equal(t, "739800", col(first, "Class Code"))
	assert.Equal(t, "Y", col(first, "OTC Coverage"))
	assert.Equal(t, "5000", col(first, "OTC Deductible"))
	assert.Equal(t, "Y", col(first, "Collision Coverage"))
	assert.Equal(t, "N", col(first, "Misc Collision"))
	assert.Equal(t, "3", col(first, "Rental Reimbursement Cov"), "PPT gets the rental defaults")
	assert.Equal(t, "75", col(first, "Rental Reimbursement Max Amt"))
	assert.Equal(t, "30", col(first, "Rental Reimbursement Max Days #"))

	second := table.Rows[1]
	assert.Equal(t, "2", col(second, "Vehicle Sequence No"))
	assert.Equal(t, "5", col(second, "Vehicle Type Code"))
	assert.Equal(t, "N", col(second, "OTC Coverage"), "no deductible means no coverage flag")
	assert.Empty(t, col(second, "Rental Reimbursement Cov"), "rental defaults are PPT-only")
	assert.Empty(t, col(second, "City"), "missing fields project to empty strings")

	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Columns))
	}
}

func TestAssemblePreservesExplicitRentalBundle(t *testing.T) {
	records := []model.VehicleRecord{
		{
			VIN:                        "X",
			Category:                   model.CategoryPPT,
			RentalReimbursementCov:     "1",
			RentalReimbursementMaxAmt:  "50",
			RentalReimbursementMaxDays: "14",
		},
	}

	table := Assemble(records, DefaultOptions())
	row := table.Rows[0]
	assert.Equal(t, "1", row[len(row)-3])
	assert.Equal(t, "50", row[len(row)-2])
	assert.Equal(t, "14", row[len(row)-1])
}

func TestWriteCSV(t *testing.T) {
	records := []model.VehicleRecord{
		{VIN: "ABC123", State: "CO", City: "Denver, West"},
	}
	table := Assemble(records, DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "State,Vehicle Sequence No,"))
	assert.Contains(t, lines[1], `"Denver, West"`, "embedded commas are quoted")
}

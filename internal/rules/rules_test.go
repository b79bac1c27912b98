package rules

import (
	"reflect"
	"testing"

	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

func testParams() Params {
	p := DefaultParams()
	p.CurrentYear = 2026
	return p
}

func TestRecentPowerUnitRule(t *testing.T) {
	records := []model.VehicleRecord{
		{VIN: "A", Category: model.CategoryLightTruck, VehicleYear: "2024"},
		{VIN: "B", Category: model.CategoryTrailer, VehicleYear: "2024"},
		{VIN: "C", Category: model.CategoryHeavyTruck, VehicleYear: "2010"},
		{VIN: "D", Category: model.CategoryMediumTruck, VehicleYear: "not-a-year"},
	}

	rule, ok := ByID("r1")
	if !ok {
		t.Fatal("rule r1 not registered")
	}
	rule.Apply(records, testParams())

	if records[0].OTCDeductible != "5000" || records[0].CollisionDeductible != "5000" {
		t.Errorf("recent power unit not given deductibles: %+v", records[0])
	}
	for _, i := range []int{1, 2, 3} {
		if records[i].OTCDeductible != "" {
			t.Errorf("record %s should not match r1, got deductible %q", records[i].VIN, records[i].OTCDeductible)
		}
	}
}

func TestHighCostPowerUnitRule(t *testing.T) {
	records := []model.VehicleRecord{
		{VIN: "A", Category: model.CategoryHeavyTruck, CostNew: "150,000"},
		{VIN: "B", Category: model.CategoryPPT, CostNew: "150000"},
		{VIN: "C", Category: model.CategoryTrailer, CostNew: "150000"},
		{VIN: "D", Category: model.CategoryHeavyTruck, CostNew: "100000"},
	}

	rule, _ := ByID("r2")
	rule.Apply(records, testParams())

	if records[0].OTCDeductible != "5000" {
		t.Errorf("high-cost power unit not matched: %+v", records[0])
	}
	for _, i := range []int{1, 2, 3} {
		if records[i].OTCDeductible != "" {
			t.Errorf("record %s should not match r2", records[i].VIN)
		}
	}
}

func TestCybertruckRuleIdempotent(t *testing.T) {
	records := []model.VehicleRecord{
		{VIN: "A", Model: "Cybertruck Foundation"},
		{VIN: "B", Model: "F-150"},
	}

	rule, _ := ByID("r3")
	rule.Apply(records, testParams())
	after := make([]model.VehicleRecord, len(records))
	copy(after, records)
	rule.Apply(records, testParams())

	if !reflect.DeepEqual(records, after) {
		t.Error("applying r3 twice changed state")
	}
	if records[0].OTCDeductible != "10000" || records[0].CollisionDeductible != "10000" {
		t.Errorf("cybertruck not matched: %+v", records[0])
	}
	if records[1].OTCDeductible != "" {
		t.Error("non-cybertruck matched r3")
	}
}

func TestHighCostPPTRule(t *testing.T) {
	records := []model.VehicleRecord{
		{VIN: "A", Category: model.CategoryPPT, CostNew: "$130,000"},
		{VIN: "B", Category: model.CategoryPPT, CostNew: "125000"},
		{VIN: "C", Category: model.CategoryHeavyTruck, CostNew: "130000"},
	}

	rule, _ := ByID("r4")
	rule.Apply(records, testParams())

	if records[0].OTCDeductible != "10000" {
		t.Errorf("high-cost PPT not matched: %+v", records[0])
	}
	if records[1].OTCDeductible != "" || records[2].OTCDeductible != "" {
		t.Error("r4 matched rows below threshold or outside PPT")
	}
}

func TestReferralRuleDoesNotMutate(t *testing.T) {
	records := []model.VehicleRecord{
		{VIN: "A", Category: model.CategoryExtraHeavyTruck, CostNew: "250000"},
		{VIN: "B", Category: model.CategoryPPT, CostNew: "250000"},
	}
	before := make([]model.VehicleRecord, len(records))
	copy(before, records)

	rule, _ := ByID("r5")
	referrals := rule.Apply(records, testParams())

	if len(referrals) != 1 || referrals[0].VIN != "A" {
		t.Errorf("expected one referral for A, got %+v", referrals)
	}
	if !reflect.DeepEqual(records, before) {
		t.Error("advisory rule mutated records")
	}
}

func TestGapFillRule(t *testing.T) {
	records := []model.VehicleRecord{
		{VIN: "A"},
		{VIN: "B", OTCDeductible: "5000", CollisionDeductible: "5000"},
		{VIN: "C", OTCDeductible: "2500"},
	}

	rule, _ := ByID("gapfill")
	rule.Apply(records, testParams())

	if records[0].OTCDeductible != "1000" || records[0].CollisionDeductible != "1000" {
		t.Errorf("gap fill missed empty row: %+v", records[0])
	}
	if records[1].OTCDeductible != "5000" {
		t.Error("gap fill overwrote a present value")
	}
	if records[2].OTCDeductible != "2500" || records[2].CollisionDeductible != "1000" {
		t.Errorf("gap fill should only fill the empty field: %+v", records[2])
	}
}

func TestApplyUnknownRule(t *testing.T) {
	_, err := Apply(nil, []string{"r1", "bogus"}, testParams())
	if err == nil {
		t.Error("expected error for unknown rule id")
	}
}

func TestApplyCoverageExceptions(t *testing.T) {
	records := []model.VehicleRecord{
		{VIN: "A", Category: model.CategoryPPT},
		{VIN: "B", Category: model.CategoryTrailer},
		{VIN: "C", Category: model.CategoryHeavyTruck},
	}

	values := CoverageValues{
		MedPay:          "5000",
		UMUIM:           "1000000",
		UMPD:            "100000",
		RentalCovOption: "3",
		RentalMaxAmt:    "75",
		RentalMaxDays:   "30",
	}
	ApplyCoverage(records, values)

	for i := range records {
		if records[i].MedPay != "5000" {
			t.Errorf("med pay not applied to %s", records[i].VIN)
		}
	}

	if records[1].UMUIM != "" || records[1].UMPD != "" {
		t.Error("uninsured-motorist fields must skip trailers")
	}
	if records[0].UMUIM != "1000000" || records[2].UMUIM != "1000000" {
		t.Error("uninsured-motorist fields missing on non-trailers")
	}

	if records[0].RentalReimbursementCov != "3" ||
		records[0].RentalReimbursementMaxAmt != "75" ||
		records[0].RentalReimbursementMaxDays != "30" {
		t.Errorf("rental bundle not applied to PPT: %+v", records[0])
	}
	if records[2].RentalReimbursementCov != "" {
		t.Error("rental bundle must apply to PPT only")
	}
}

package model

import "testing"

func TestModelYearInt(t *testing.T) {
	tests := []struct {
		year string
		want int
		ok   bool
	}{
		{"2023", 2023, true},
		{" 2019 ", 2019, true},
		{"", 0, false},
		{"unknown", 0, false},
	}

	for _, tt := range tests {
		rec := VehicleRecord{VehicleYear: tt.year}
		got, ok := rec.ModelYearInt()
		if got != tt.want || ok != tt.ok {
			t.Errorf("ModelYearInt(%q) = (%d, %v), want (%d, %v)", tt.year, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCostNewAmount(t *testing.T) {
	tests := []struct {
		cost string
		want float64
		ok   bool
	}{
		{"45000", 45000, true},
		{"$125,000", 125000, true},
		{"98000.50", 98000.50, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"$", 0, false},
	}

	for _, tt := range tests {
		rec := VehicleRecord{CostNew: tt.cost}
		got, ok := rec.CostNewAmount()
		if got != tt.want || ok != tt.ok {
			t.Errorf("CostNewAmount(%q) = (%g, %v), want (%g, %v)", tt.cost, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCategoryPredicates(t *testing.T) {
	trailer := VehicleRecord{Category: CategoryTrailer}
	if !trailer.IsTrailer() || trailer.IsPPT() {
		t.Error("trailer predicates wrong")
	}

	ppt := VehicleRecord{Category: CategoryPPT}
	if !ppt.IsPPT() || ppt.IsTrailer() {
		t.Error("ppt predicates wrong")
	}
}

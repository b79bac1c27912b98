package classify

import (
	"testing"

	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

func TestClassCode(t *testing.T) {
	tests := []struct {
		category model.RatingCategory
		want     string
	}{
		{model.CategoryPPT, "739800"},
		{model.CategoryLightTruck, "014890"},
		{model.CategoryMediumTruck, "214890"},
		{model.CategoryHeavyTruck, "314890"},
		{model.CategoryExtraHeavyTruck, "404890"},
		{model.CategoryTruckTractorHeavy, "504890"},
		{model.CategoryTruckTractorExtraHeavy, "604890"},
		{model.CategoryTrailer, "684890"},
		{model.CategoryUnknown, "Unknown"},
		{model.RatingCategory("Bogus"), "Unknown"},
	}

	for _, tt := range tests {
		if got := ClassCode(tt.category); got != tt.want {
			t.Errorf("ClassCode(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestVehicleTypeCode(t *testing.T) {
	tests := []struct {
		classCode string
		want      string
	}{
		{"739800", "1"},
		{"014890", "3"},
		{"214890", "3"},
		{"314890", "3"},
		{"404890", "4"},
		{"504890", "4"},
		{"604890", "5"},
		{"684890", "5"},
		{"Unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := VehicleTypeCode(tt.classCode); got != tt.want {
			t.Errorf("VehicleTypeCode(%q) = %q, want %q", tt.classCode, got, tt.want)
		}
	}
}

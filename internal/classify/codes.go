package classify

import "github.com/zhangkeAstrus/autoschedule-import/internal/model"

// UnknownClassCode is the sentinel emitted for categories outside the
// class-code table. Downstream rules keyed on specific codes will not
// match such rows; they are left for operator review.
const UnknownClassCode = "Unknown"

var classCodes = map[model.RatingCategory]string{
	model.CategoryPPT:                    "739800",
	model.CategoryLightTruck:             "014890",
	model.CategoryMediumTruck:            "214890",
	model.CategoryHeavyTruck:             "314890",
	model.CategoryExtraHeavyTruck:        "404890",
	model.CategoryTruckTractorHeavy:      "504890",
	model.CategoryTruckTractorExtraHeavy: "604890",
	model.CategoryTrailer:                "684890",
}

// Single-digit vehicle type codes grouped by class code:
// 1 passenger, 3 light/medium/heavy truck, 4 extra-heavy and tractor,
// 5 trailer and the extra-heavy tractor variant.
var vehicleTypeCodes = map[string]string{
	"739800": "1",
	"014890": "3",
	"214890": "3",
	"314890": "3",
	"404890": "4",
	"504890": "4",
	"604890": "5",
	"684890": "5",
}

// ClassCode resolves a rating category to its fixed 6-digit regulatory
// class code. Unmapped categories yield the "Unknown" sentinel.
func ClassCode(category model.RatingCategory) string {
	if code, ok := classCodes[category]; ok {
		return code
	}
	return UnknownClassCode
}

// VehicleTypeCode resolves a class code to its single-digit vehicle type
// code. Unmapped codes yield an empty string.
func VehicleTypeCode(classCode string) string {
	return vehicleTypeCodes[classCode]
}

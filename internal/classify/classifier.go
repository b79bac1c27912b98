// Package classify maps decoded vehicle attributes to insurance rating
// categories and regulatory class codes.
package classify

import (
	"strings"

	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

// Declared-type values recognized by the decision table.
const (
	declaredTrailer = "TRAILER"
	declaredCar     = "PASSENGER CAR"
	declaredMPV     = "MULTIPURPOSE PASSENGER VEHICLE (MPV)"

	bodyTruckTractor = "Truck-Tractor"
)

// Config holds the classification thresholds and the fallback category.
// The weight boundaries are underwriting parameters, not constants; all
// comparisons are inclusive on the low side.
type Config struct {
	LightMaxPounds   int
	MediumMaxPounds  int
	HeavyMaxPounds   int
	FallbackCategory model.RatingCategory
}

// DefaultConfig returns the standard underwriting thresholds.
func DefaultConfig() Config {
	return Config{
		LightMaxPounds:   10000,
		MediumMaxPounds:  20000,
		HeavyMaxPounds:   45000,
		FallbackCategory: model.CategoryUnknown,
	}
}

// Classifier evaluates the rating decision table.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(cfg Config) *Classifier {
	if cfg.FallbackCategory == "" {
		cfg.FallbackCategory = model.CategoryUnknown
	}
	return &Classifier{cfg: cfg}
}

// Classify maps (declared type, body class, weight) to a rating category.
// Rules are evaluated in strict priority order; the first match wins.
// A nil weight never reaches a threshold comparison: rows that match no
// type- or body-class rule fall through to the fallback category.
func (c *Classifier) Classify(declaredType, bodyClass string, weight *int) model.RatingCategory {
	declared := strings.ToUpper(strings.TrimSpace(declaredType))

	switch declared {
	case declaredTrailer:
		return model.CategoryTrailer
	case declaredCar, declaredMPV:
		return model.CategoryPPT
	}

	if strings.EqualFold(strings.TrimSpace(bodyClass), bodyTruckTractor) {
		if weight == nil {
			return c.cfg.FallbackCategory
		}
		if *weight <= c.cfg.HeavyMaxPounds {
			return model.CategoryTruckTractorHeavy
		}
		return model.CategoryTruckTractorExtraHeavy
	}

	if weight == nil {
		return c.cfg.FallbackCategory
	}

	switch {
	case *weight <= c.cfg.LightMaxPounds:
		return model.CategoryLightTruck
	case *weight <= c.cfg.MediumMaxPounds:
		return model.CategoryMediumTruck
	case *weight <= c.cfg.HeavyMaxPounds:
		return model.CategoryHeavyTruck
	default:
		return model.CategoryExtraHeavyTruck
	}
}

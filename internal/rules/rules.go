// Package rules implements the underwriting rule engine: a table of named,
// independently-runnable transformations over the working record set. Every
// rule overwrites its target fields for matching rows, so re-running a rule
// always produces the same state.
package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

// Params holds the business thresholds the rules evaluate against. These
// are underwriting parameters, surfaced through configuration.
type Params struct {
	CurrentYear          int
	RecentYearWindow     int
	PowerUnitDeductible  int
	HighCostThreshold    float64
	CybertruckDeductible int
	PPTCostThreshold     float64
	PPTDeductible        int
	ReferralThreshold    float64
	DefaultDeductible    int
}

// DefaultParams returns the standard underwriting parameters.
func DefaultParams() Params {
	return Params{
		CurrentYear:          time.Now().Year(),
		RecentYearWindow:     10,
		PowerUnitDeductible:  5000,
		HighCostThreshold:    100000,
		CybertruckDeductible: 10000,
		PPTCostThreshold:     125000,
		PPTDeductible:        10000,
		ReferralThreshold:    200000,
		DefaultDeductible:    1000,
	}
}

// Referral is an advisory flag requiring manual underwriter sign-off.
// Referrals never alter record data.
type Referral struct {
	VIN    string
	Reason string
}

// Rule is one named, idempotent transformation. Apply mutates matching
// records in place and returns any referrals it raised.
type Rule struct {
	ID          string
	Name        string
	Description string
	Advisory    bool
	Apply       func(records []model.VehicleRecord, p Params) []Referral
}

// All returns the rule table in its documented evaluation order. Rules are
// independent; the order only matters where predicates overlap (R1 and R2
// can both match a non-trailer truck), in which case the later rule wins.
// Under the default parameters the overlapping rules set equal values.
func All() []Rule {
	return []Rule{
		{
			ID:          "r1",
			Name:        "Recent power unit deductibles",
			Description: "Non-trailer with vehicle year in the recent window gets the power-unit deductible on comp and collision.",
			Apply:       applyRecentPowerUnit,
		},
		{
			ID:          "r2",
			Name:        "High-cost power unit deductibles",
			Description: "Non-PPT, non-trailer with cost new above the high-cost threshold gets the power-unit deductible on comp and collision.",
			Apply:       applyHighCostPowerUnit,
		},
		{
			ID:          "r3",
			Name:        "Cybertruck deductibles",
			Description: "Model containing CYBERTRUCK gets the elevated deductible on comp and collision.",
			Apply:       applyCybertruck,
		},
		{
			ID:          "r4",
			Name:        "High-cost PPT deductibles",
			Description: "PPT with cost new above the PPT threshold gets the elevated deductible on comp and collision.",
			Apply:       applyHighCostPPT,
		},
		{
			ID:          "r5",
			Name:        "Referral review",
			Description: "Non-PPT, non-trailer with cost new above the referral threshold is flagged for underwriter sign-off. Advisory only.",
			Advisory:    true,
			Apply:       applyReferralReview,
		},
		{
			ID:          "gapfill",
			Name:        "Deductible gap fill",
			Description: "Rows with an empty comp or collision deductible receive the default deductible.",
			Apply:       applyGapFill,
		},
	}
}

// ByID looks up a rule from the table.
func ByID(id string) (Rule, bool) {
	for _, r := range All() {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Apply runs the named rules in the given order and collects referrals.
func Apply(records []model.VehicleRecord, ids []string, p Params) ([]Referral, error) {
	if p.CurrentYear == 0 {
		p.CurrentYear = time.Now().Year()
	}

	var referrals []Referral
	for _, id := range ids {
		rule, ok := ByID(id)
		if !ok {
			return referrals, fmt.Errorf("unknown rule %q", id)
		}
		referrals = append(referrals, rule.Apply(records, p)...)
	}
	return referrals, nil
}

func setDeductibles(rec *model.VehicleRecord, amount int) {
	value := strconv.Itoa(amount)
	rec.OTCDeductible = value
	rec.CollisionDeductible = value
}

func applyRecentPowerUnit(records []model.VehicleRecord, p Params) []Referral {
	for i := range records {
		rec := &records[i]
		if rec.IsTrailer() {
			continue
		}
		year, ok := rec.ModelYearInt()
		if !ok || year < p.CurrentYear-p.RecentYearWindow {
			continue
		}
		setDeductibles(rec, p.PowerUnitDeductible)
	}
	return nil
}

func applyHighCostPowerUnit(records []model.VehicleRecord, p Params) []Referral {
	for i := range records {
		rec := &records[i]
		if rec.IsTrailer() || rec.IsPPT() {
			continue
		}
		cost, ok := rec.CostNewAmount()
		if !ok || cost <= p.HighCostThreshold {
			continue
		}
		setDeductibles(rec, p.PowerUnitDeductible)
	}
	return nil
}

func applyCybertruck(records []model.VehicleRecord, p Params) []Referral {
	for i := range records {
		rec := &records[i]
		if !strings.Contains(strings.ToUpper(rec.Model), "CYBERTRUCK") {
			continue
		}
		setDeductibles(rec, p.CybertruckDeductible)
	}
	return nil
}

func applyHighCostPPT(records []model.VehicleRecord, p Params) []Referral {
	for i := range records {
		rec := &records[i]
		if !rec.IsPPT() {
			continue
		}
		cost, ok := rec.CostNewAmount()
		if !ok || cost <= p.PPTCostThreshold {
			continue
		}
		setDeductibles(rec, p.PPTDeductible)
	}
	return nil
}

func applyReferralReview(records []model.VehicleRecord, p Params) []Referral {
	var referrals []Referral
	for i := range records {
		rec := &records[i]
		if rec.IsTrailer() || rec.IsPPT() {
			continue
		}
		cost, ok := rec.CostNewAmount()
		if !ok || cost <= p.ReferralThreshold {
			continue
		}
		referrals = append(referrals, Referral{
			VIN:    rec.VIN,
			Reason: fmt.Sprintf("cost new %.0f exceeds referral threshold %.0f", cost, p.ReferralThreshold),
		})
	}
	return referrals
}

func applyGapFill(records []model.VehicleRecord, p Params) []Referral {
	value := strconv.Itoa(p.DefaultDeductible)
	for i := range records {
		rec := &records[i]
		if strings.TrimSpace(rec.OTCDeductible) == "" {
			rec.OTCDeductible = value
		}
		if strings.TrimSpace(rec.CollisionDeductible) == "" {
			rec.CollisionDeductible = value
		}
	}
	return nil
}

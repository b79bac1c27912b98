package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zhangkeAstrus/autoschedule-import/internal/cli"
	"github.com/zhangkeAstrus/autoschedule-import/internal/rules"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the underwriting rules and their active parameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var b strings.Builder
			for _, rule := range rules.All() {
				kind := "deterministic"
				if rule.Advisory {
					kind = "advisory"
				}
				fmt.Fprintf(&b, "%-8s %s (%s)\n         %s\n", rule.ID, rule.Name, kind, rule.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Underwriting Rules", strings.TrimRight(b.String(), "\n")))

			p := rulesParams()
			params := fmt.Sprintf(
				"Recent year window:      %d (current year %d)\nPower unit deductible:   %d\nHigh cost threshold:     %.0f\nCybertruck deductible:   %d\nPPT cost threshold:      %.0f\nPPT deductible:          %d\nReferral threshold:      %.0f\nDefault deductible:      %d",
				p.RecentYearWindow, p.CurrentYear,
				p.PowerUnitDeductible, p.HighCostThreshold,
				p.CybertruckDeductible, p.PPTCostThreshold, p.PPTDeductible,
				p.ReferralThreshold, p.DefaultDeductible)
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Active Parameters", params))
			return nil
		},
	}
}

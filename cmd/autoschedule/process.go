package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zhangkeAstrus/autoschedule-import/internal/classify"
	"github.com/zhangkeAstrus/autoschedule-import/internal/cli"
	"github.com/zhangkeAstrus/autoschedule-import/internal/config"
	"github.com/zhangkeAstrus/autoschedule-import/internal/engine"
	"github.com/zhangkeAstrus/autoschedule-import/internal/importer"
	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
	"github.com/zhangkeAstrus/autoschedule-import/internal/nhtsa"
	"github.com/zhangkeAstrus/autoschedule-import/internal/rules"
	"github.com/zhangkeAstrus/autoschedule-import/internal/schedule"
	"github.com/zhangkeAstrus/autoschedule-import/internal/storage"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the full vehicle schedule pipeline",
		Long: `Read a vehicle submission file, clean and decode VINs, classify each
vehicle, apply underwriting rules, and write the vehicle schedule import CSV.

Column mapping takes canonical=source pairs, e.g.:
  autoschedule process -i fleet.csv --vin-column "Serial Number" \
    --columns "City=Garaging City,State=ST,Cost New=Original Cost"`,
		RunE: runProcess,
	}

	cmd.Flags().StringP("input", "i", "", "vehicle submission file (CSV)")
	cmd.Flags().StringP("output", "o", "vehicle_schedule_import.csv", "schedule import output file")
	cmd.Flags().String("vin-column", "", "source column holding the VIN")
	cmd.Flags().StringToString("columns", nil, "canonical=source column mapping")
	cmd.Flags().Int("skip-top", 0, "rows to drop before the header (titles, letterhead)")
	cmd.Flags().Int("skip-bottom", 0, "rows to drop from the end (totals, padding)")
	cmd.Flags().StringSlice("rules", []string{"r1", "r2", "r3", "r4", "r5", "gapfill"},
		"underwriting rules to apply, in order")
	cmd.Flags().Bool("no-cache", false, "skip the local decode cache")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("vin-column")

	_ = viper.BindPFlag("process.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("process.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("process.vin_column", cmd.Flags().Lookup("vin-column"))
	_ = viper.BindPFlag("process.columns", cmd.Flags().Lookup("columns"))
	_ = viper.BindPFlag("process.skip_top", cmd.Flags().Lookup("skip-top"))
	_ = viper.BindPFlag("process.skip_bottom", cmd.Flags().Lookup("skip-bottom"))
	_ = viper.BindPFlag("process.rules", cmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("process.no_cache", cmd.Flags().Lookup("no-cache"))

	return cmd
}

func runProcess(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	started := time.Now()

	input := viper.GetString("process.input")
	output := viper.GetString("process.output")

	slog.Info(cli.FormatTitle("Processing vehicle schedule submission"))

	raws, err := importer.ReadFile(input, importer.Options{
		VINColumn:  viper.GetString("process.vin_column"),
		Columns:    viper.GetStringMapString("process.columns"),
		SkipTop:    viper.GetInt("process.skip_top"),
		SkipBottom: viper.GetInt("process.skip_bottom"),
	})
	if err != nil {
		return fmt.Errorf("failed to read submission: %w", err)
	}
	slog.Info("Parsed submission", "file", input, "rows", len(raws))

	var opts []engine.Option
	var store *storage.SQLiteStorage
	if !viper.GetBool("process.no_cache") {
		store, err = storage.NewSQLiteStorage(databasePath())
		if err != nil {
			return fmt.Errorf("failed to open decode cache: %w", err)
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, engine.WithCache(store))
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Decoding VINs..."),
	)

	decoder := nhtsa.NewClient(nhtsa.Config{
		Endpoint:  viper.GetString("nhtsa.endpoint"),
		BatchSize: viper.GetInt("nhtsa.batch_size"),
		Timeout:   viper.GetDuration("nhtsa.timeout"),
		Progress: func(done, total int) {
			bar.ChangeMax(total)
			_ = bar.Set(done)
		},
	})

	pipeline, err := engine.New(decoder, classify.NewClassifier(classifyConfig()), opts...)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(ctx, raws)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	_ = bar.Finish()
	fmt.Fprintln(cmd.ErrOrStderr())

	for _, batchErr := range result.BatchErrors {
		slog.Error(cli.FormatError(fmt.Sprintf(
			"Decode batch %d failed (%d VINs): %s", batchErr.Batch, batchErr.Size, batchErr.Message)))
	}
	if result.DecodeMisses > 0 {
		slog.Warn(cli.FormatWarning(fmt.Sprintf(
			"%d VIN(s) could not be classified by the decoding service; review them manually", result.DecodeMisses)))
	}

	referrals, err := rules.Apply(result.Records, viper.GetStringSlice("process.rules"), rulesParams())
	if err != nil {
		return fmt.Errorf("failed to apply underwriting rules: %w", err)
	}
	for _, ref := range referrals {
		slog.Warn(cli.FormatWarning(fmt.Sprintf("Referral required for %s: %s", ref.VIN, ref.Reason)))
	}

	rules.ApplyCoverage(result.Records, coverageValues())

	table := schedule.Assemble(result.Records, scheduleOptions())
	if err := schedule.WriteFile(output, table); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}

	if store != nil {
		if err := store.RecordRun(ctx, storage.RunSummary{
			SourceFile:    input,
			TotalRows:     len(raws),
			Decoded:       len(result.Decoded),
			DecodeMisses:  result.DecodeMisses,
			FailedBatches: len(result.BatchErrors),
			StartedAt:     started,
			CompletedAt:   time.Now(),
		}); err != nil {
			slog.Warn("Failed to record run history", "error", err)
		}
	}

	summary := fmt.Sprintf(
		"Rows:           %d\nUnique VINs:    %d\nCache hits:     %d\nDecode misses:  %d\nFailed batches: %d\nReferrals:      %d\n\nOutput: %s",
		len(raws), result.UniqueVINs, result.CacheHits, result.DecodeMisses,
		len(result.BatchErrors), len(referrals), output)
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Vehicle Schedule Import", summary))

	slog.Info(cli.FormatSuccess("Processing complete"))
	return nil
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.NewSQLiteStorage(databasePath())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				slog.Info("No runs recorded yet")
				return nil
			}

			var b strings.Builder
			for _, run := range runs {
				fmt.Fprintf(&b, "%s  %s  rows=%d decoded=%d misses=%d failed_batches=%d\n",
					run.CompletedAt.Format("2006-01-02 15:04"), run.SourceFile,
					run.TotalRows, run.Decoded, run.DecodeMisses, run.FailedBatches)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Recent Runs", strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
	cmd.Flags().Int("limit", 10, "number of runs to show")
	return cmd
}

func databasePath() string {
	if path := viper.GetString("database.path"); path != "" {
		return config.ExpandPath(path)
	}
	return config.DefaultDatabasePath()
}

func classifyConfig() classify.Config {
	return classify.Config{
		LightMaxPounds:   viper.GetInt("classify.light_max_pounds"),
		MediumMaxPounds:  viper.GetInt("classify.medium_max_pounds"),
		HeavyMaxPounds:   viper.GetInt("classify.heavy_max_pounds"),
		FallbackCategory: model.RatingCategory(viper.GetString("classify.fallback_category")),
	}
}

func rulesParams() rules.Params {
	return rules.Params{
		CurrentYear:          time.Now().Year(),
		RecentYearWindow:     viper.GetInt("rules.recent_year_window"),
		PowerUnitDeductible:  viper.GetInt("rules.power_unit_deductible"),
		HighCostThreshold:    viper.GetFloat64("rules.high_cost_threshold"),
		CybertruckDeductible: viper.GetInt("rules.cybertruck_deductible"),
		PPTCostThreshold:     viper.GetFloat64("rules.ppt_cost_threshold"),
		PPTDeductible:        viper.GetInt("rules.ppt_deductible"),
		ReferralThreshold:    viper.GetFloat64("rules.referral_threshold"),
		DefaultDeductible:    viper.GetInt("rules.default_deductible"),
	}
}

func coverageValues() rules.CoverageValues {
	return rules.CoverageValues{
		PIP:               viper.GetString("coverage.pip"),
		AddtlPIP:          viper.GetString("coverage.addtl_pip"),
		MedPay:            viper.GetString("coverage.med_pay"),
		UMUIM:             viper.GetString("coverage.um_uim"),
		UMPD:              viper.GetString("coverage.um_pd"),
		Towing:            viper.GetString("coverage.towing"),
		ACVOrStatedAmount: viper.GetString("coverage.acv_or_stated_amount"),
		AutoLoanLeaseGap:  viper.GetString("coverage.auto_loan_lease_gap"),
		PIPOperatedByEmp:  viper.GetString("coverage.pip_operated_by_employee"),
		LeasedVehicle:     viper.GetString("coverage.leased_vehicle"),
		RentalCovOption:   viper.GetString("coverage.rental_cov_option"),
		RentalMaxAmt:      viper.GetString("coverage.rental_max_amt"),
		RentalMaxDays:     viper.GetString("coverage.rental_max_days"),
	}
}

func scheduleOptions() schedule.Options {
	return schedule.Options{
		CompGroupNo:     viper.GetString("schedule.comp_group_no"),
		MiscCollision:   viper.GetString("schedule.misc_collision"),
		RentalCovOption: viper.GetString("schedule.rental_cov_option"),
		RentalMaxAmt:    viper.GetString("schedule.rental_max_amt"),
		RentalMaxDays:   viper.GetString("schedule.rental_max_days"),
	}
}

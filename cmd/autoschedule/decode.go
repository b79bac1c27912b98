package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zhangkeAstrus/autoschedule-import/internal/classify"
	"github.com/zhangkeAstrus/autoschedule-import/internal/cli"
	"github.com/zhangkeAstrus/autoschedule-import/internal/engine"
	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
	"github.com/zhangkeAstrus/autoschedule-import/internal/nhtsa"
	"github.com/zhangkeAstrus/autoschedule-import/internal/storage"
)

func decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode VIN [VIN...]",
		Short: "Decode and classify one or more VINs",
		Long: `Decode VINs through the NHTSA service and show the cleaned VIN, decoded
attributes, and the resulting rating category and class code. Useful for
spot-checking a vehicle without running a full submission.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDecode,
	}
	cmd.Flags().Bool("no-cache", false, "skip the local decode cache")
	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	var opts []engine.Option
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if !noCache {
		store, err := storage.NewSQLiteStorage(databasePath())
		if err != nil {
			return fmt.Errorf("failed to open decode cache: %w", err)
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, engine.WithCache(store))
	}

	decoder := nhtsa.NewClient(nhtsa.Config{
		Endpoint:  viper.GetString("nhtsa.endpoint"),
		BatchSize: viper.GetInt("nhtsa.batch_size"),
		Timeout:   viper.GetDuration("nhtsa.timeout"),
	})

	pipeline, err := engine.New(decoder, classify.NewClassifier(classifyConfig()), opts...)
	if err != nil {
		return err
	}

	raws := make([]model.RawVehicle, len(args))
	for i, arg := range args {
		raws[i] = model.RawVehicle{VIN: arg}
	}

	result, err := pipeline.Run(cmd.Context(), raws)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	for _, batchErr := range result.BatchErrors {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError(fmt.Sprintf(
			"Decode batch %d failed (%d VINs): %s", batchErr.Batch, batchErr.Size, batchErr.Message)))
	}

	for _, rec := range result.Records {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(rec.VIN, formatRecord(rec)))
	}
	return nil
}

func formatRecord(rec model.VehicleRecord) string {
	var b strings.Builder
	if rec.VINModified {
		fmt.Fprintf(&b, "As uploaded:  %s (cleaned)\n", rec.RawVIN)
	}
	if rec.DecodeErrorCode != "" {
		fmt.Fprintf(&b, "Decode error: %s %s\n", rec.DecodeErrorCode, rec.DecodeErrorText)
	} else if !rec.Decoded {
		b.WriteString("Decode error: no result from the decoding service\n")
	}

	fmt.Fprintf(&b, "Vehicle:      %s %s %s\n",
		orDash(rec.VehicleYear), orDash(rec.Make), orDash(rec.Model))
	fmt.Fprintf(&b, "Type:         %s / %s\n",
		orDash(rec.DeclaredType), orDash(rec.BodyClass))
	if rec.Weight != nil {
		fmt.Fprintf(&b, "GVWR:         %d lb (%s)\n", *rec.Weight, rec.GVWRText)
	} else {
		fmt.Fprintf(&b, "GVWR:         %s\n", orDash(rec.GVWRText))
	}
	fmt.Fprintf(&b, "Category:     %s\n", rec.Category)
	fmt.Fprintf(&b, "Class code:   %s (type %s)", rec.ClassCode, orDash(rec.VehicleTypeCode))

	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

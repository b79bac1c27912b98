package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zhangkeAstrus/autoschedule-import/internal/common"
	"github.com/zhangkeAstrus/autoschedule-import/internal/nhtsa"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "autoschedule",
		Short: "🚚 Vehicle schedule submission review pipeline",
		Long: `autoschedule ingests a vehicle submission spreadsheet, cleans VINs,
enriches each vehicle through the NHTSA decoding service, classifies it into
an insurance rating category, applies underwriting rules, and produces the
fixed-schema vehicle schedule import file.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/autoschedule/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add commands
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/autoschedule", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("AUTOSCHEDULE")
	viper.AutomaticEnv()

	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

// setDefaults registers the business parameter defaults. Everything here is
// an underwriting or service parameter an operator may override.
func setDefaults() {
	viper.SetDefault("nhtsa.endpoint", nhtsa.DefaultEndpoint)
	viper.SetDefault("nhtsa.batch_size", 50)
	viper.SetDefault("nhtsa.timeout", "30s")

	viper.SetDefault("classify.light_max_pounds", 10000)
	viper.SetDefault("classify.medium_max_pounds", 20000)
	viper.SetDefault("classify.heavy_max_pounds", 45000)
	viper.SetDefault("classify.fallback_category", "Unknown")

	viper.SetDefault("rules.recent_year_window", 10)
	viper.SetDefault("rules.power_unit_deductible", 5000)
	viper.SetDefault("rules.high_cost_threshold", 100000)
	viper.SetDefault("rules.cybertruck_deductible", 10000)
	viper.SetDefault("rules.ppt_cost_threshold", 125000)
	viper.SetDefault("rules.ppt_deductible", 10000)
	viper.SetDefault("rules.referral_threshold", 200000)
	viper.SetDefault("rules.default_deductible", 1000)

	viper.SetDefault("schedule.comp_group_no", "1")
	viper.SetDefault("schedule.misc_collision", "N")
	viper.SetDefault("schedule.rental_cov_option", "3")
	viper.SetDefault("schedule.rental_max_amt", "75")
	viper.SetDefault("schedule.rental_max_days", "30")
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			slog.Info("autoschedule version", "version", version)
		},
	}
}

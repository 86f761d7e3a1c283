// Package commands implements the climatekit query CLI.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	app "github.com/okian/climatekit/internal/app"
	"github.com/okian/climatekit/internal/config"
	"github.com/okian/climatekit/internal/domain/table"
	"github.com/okian/climatekit/pkg/logger"
	"github.com/spf13/cobra"
)

// Output formats.
const (
	formatJSON  = "json"
	formatTable = "table"
)

var (
	envFile  string
	baseURL  string
	format   string
	logLevel string

	// newService is replaced in tests.
	newService = func(cfg *config.Config, l logger.Logger) Service {
		return app.FromConfig(cfg, l)
	}
)

var rootCmd = &cobra.Command{
	Use:   "climatekit",
	Short: "Query OpenClimate actors, targets and emissions pathways",
	Long: `climatekit reads actor, target and emissions data from the OpenClimate API
and computes IPCC AR6 emissions pathways from it.

Configuration comes from CLIMATEKIT_* environment variables, an optional YAML
file named by CLIMATEKIT_CONFIG and a .env file in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before configuration")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "OpenClimate API base URL (overrides configuration)")
	rootCmd.PersistentFlags().StringVarP(&format, "output", "o", formatJSON, "output format: json or table")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides configuration)")

	rootCmd.AddCommand(PartsCmd)
	rootCmd.AddCommand(TargetCmd)
	rootCmd.AddCommand(EmissionsCmd)
	rootCmd.AddCommand(PathwayCmd)
	rootCmd.AddCommand(LinearCmd)
}

// setup loads configuration and builds the service for a command.
func setup(cmd *cobra.Command) (*config.Config, Service, error) {
	// A missing dotenv file is not an error.
	_ = godotenv.Load(envFile)

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
		return nil, nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, nil, err
	}
	return cfg, newService(cfg, logger.Named("climatekit")), nil
}

// printResult prints a found value, or the not-found reason.
func printResult[T any](w io.Writer, res app.Result[T]) error {
	if !res.Found() {
		_, err := fmt.Fprintln(w, res.Reason)
		return err
	}
	return printValue(w, res.Value)
}

func printValue(w io.Writer, v any) error {
	switch format {
	case formatTable:
		if t, ok := v.(*table.Table); ok {
			_, err := fmt.Fprintln(w, t.String())
			return err
		}
	case formatJSON:
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

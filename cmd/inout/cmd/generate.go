package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inout-engine/cmd/inout/config"
	"inout-engine/internal/recurrence"
	"inout-engine/internal/report"
	"inout-engine/internal/store"
	pkgerrors "inout-engine/pkg/errors"
	"inout-engine/pkg/logger"
)

var generateOutputFormat string

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Materialize due subscription charges",
	Long: `Generate sweeps every subscription and creates a transaction record
for each cycle that has come due since the last sweep. Running it again
immediately produces nothing new: each occurrence is generated exactly
once.

Examples:
  inout generate
  inout generate --output-format json`,

	PreRunE: validateGenerateFlags,
	RunE:    runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateOutputFormat, "output-format", "console", "output format: console, json")
}

func validateGenerateFlags(cmd *cobra.Command, args []string) error {
	if !report.OutputFormat(generateOutputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json", generateOutputFormat)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := logger.GetGlobalLogger()

	db, err := config.OpenStore(ctx, log)
	if err != nil {
		return err
	}
	defer db.Close()

	engine := recurrence.NewEngine(db, db.Subscriptions(), store.SystemClock{}, config.Currency(), log)
	result, err := engine.Sweep(ctx)
	if err != nil {
		return err
	}

	generator, err := report.NewGenerator(report.OutputFormat(generateOutputFormat))
	if err != nil {
		return err
	}
	if err := generator.WriteSweepReport(result, os.Stdout); err != nil {
		return pkgerrors.InternalError(pkgerrors.CodeUnexpectedError, "render sweep report", err)
	}
	return nil
}

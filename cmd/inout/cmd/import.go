package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"inout-engine/cmd/inout/config"
	"inout-engine/internal/importer"
	"inout-engine/internal/report"
	"inout-engine/internal/store"
	pkgerrors "inout-engine/pkg/errors"
	"inout-engine/pkg/logger"
)

// Flags for the import command
var (
	importFile   string
	outputFormat string

	matchAmount   bool
	matchDate     bool
	matchTitle    bool
	matchKind     bool
	matchCategory bool
	matchCurrency bool
	timeThreshold int64
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import transactions from a CSV file",
	Long: `Import reads a CSV transaction file, normalizes its rows, skips
rows that duplicate records already in the store, creates any missing
categories, and commits the remainder as one batch.

Duplicate matching compares the enabled axes; a row is a duplicate when at
least two of them (or all, when fewer are enabled) agree with an existing
record.

Examples:
  inout import --file transactions.csv
  inout import --file export.csv --match-title --match-category
  inout import --file export.csv --time-threshold 3600`,

	PreRunE: validateImportFlags,
	RunE:    runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "path to CSV transaction file (required)")
	importCmd.Flags().StringVar(&outputFormat, "output-format", "console", "output format: console, json")

	// Duplicate criteria flags
	importCmd.Flags().BoolVar(&matchAmount, "match-amount", true, "compare amounts")
	importCmd.Flags().BoolVar(&matchDate, "match-date", true, "compare timestamps")
	importCmd.Flags().BoolVar(&matchTitle, "match-title", false, "compare titles (case-insensitive)")
	importCmd.Flags().BoolVar(&matchKind, "match-kind", true, "compare income/outcome direction")
	importCmd.Flags().BoolVar(&matchCategory, "match-category", false, "compare categories")
	importCmd.Flags().BoolVar(&matchCurrency, "match-currency", false, "compare currency codes")
	importCmd.Flags().Int64Var(&timeThreshold, "time-threshold", 86400, "timestamp tolerance in seconds; 86400+ compares calendar days")

	importCmd.MarkFlagRequired("file")

	viper.BindPFlag("match-amount", importCmd.Flags().Lookup("match-amount"))
	viper.BindPFlag("match-date", importCmd.Flags().Lookup("match-date"))
	viper.BindPFlag("match-title", importCmd.Flags().Lookup("match-title"))
	viper.BindPFlag("match-kind", importCmd.Flags().Lookup("match-kind"))
	viper.BindPFlag("match-category", importCmd.Flags().Lookup("match-category"))
	viper.BindPFlag("match-currency", importCmd.Flags().Lookup("match-currency"))
	viper.BindPFlag("time-threshold", importCmd.Flags().Lookup("time-threshold"))
}

func validateImportFlags(cmd *cobra.Command, args []string) error {
	if importFile == "" {
		return fmt.Errorf("file is required")
	}

	info, err := os.Stat(importFile)
	if os.IsNotExist(err) {
		return pkgerrors.FileError(pkgerrors.CodeFileNotFound, importFile, err)
	}
	if err != nil {
		return pkgerrors.FileError(pkgerrors.CodeFileUnreadable, importFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file", importFile)
	}

	if !report.OutputFormat(outputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json", outputFormat)
	}

	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := logger.GetGlobalLogger()

	criteria, err := config.BuildCriteria()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(importFile)
	if err != nil {
		return pkgerrors.FileError(pkgerrors.CodeFileUnreadable, importFile, err)
	}

	db, err := config.OpenStore(ctx, log)
	if err != nil {
		return err
	}
	defer db.Close()

	imp := importer.NewImporter(db, db.Categories(), store.SystemClock{}, config.Currency(), log)
	result, err := imp.ImportCSV(ctx, string(data), criteria)
	if err != nil {
		return err
	}

	generator, err := report.NewGenerator(report.OutputFormat(outputFormat))
	if err != nil {
		return err
	}
	if err := generator.WriteImportReport(result, os.Stdout); err != nil {
		return pkgerrors.InternalError(pkgerrors.CodeUnexpectedError, "render import report", err)
	}
	return nil
}

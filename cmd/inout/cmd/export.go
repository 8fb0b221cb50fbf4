package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"inout-engine/cmd/inout/config"
	"inout-engine/internal/importer"
	"inout-engine/internal/store"
	pkgerrors "inout-engine/pkg/errors"
	"inout-engine/pkg/logger"
)

var exportFile string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all transactions to CSV",
	Long: `Export writes every persisted transaction in the same CSV format
import reads, so an exported file re-imports without the records being
taken for new data.

Examples:
  inout export
  inout export --output backup.csv`,

	PreRunE: validateExportFlags,
	RunE:    runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFile, "output", "o", "", "output file path (default: stdout)")
}

func validateExportFlags(cmd *cobra.Command, args []string) error {
	if exportFile != "" {
		dir := filepath.Dir(exportFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := logger.GetGlobalLogger()

	db, err := config.OpenStore(ctx, log)
	if err != nil {
		return err
	}
	defer db.Close()

	imp := importer.NewImporter(db, db.Categories(), store.SystemClock{}, config.Currency(), log)
	text, err := imp.ExportCSV(ctx)
	if err != nil {
		return err
	}

	if exportFile == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(exportFile, []byte(text), 0o644); err != nil {
		return pkgerrors.FileError(pkgerrors.CodeFilePermission, exportFile, err)
	}
	log.WithField("file", exportFile).Info("Export written")
	return nil
}

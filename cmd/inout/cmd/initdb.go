package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"inout-engine/cmd/inout/config"
	"inout-engine/pkg/logger"
)

// initDBCmd represents the init-db command
var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema and seed categories",
	Long: `Init-db creates the records, categories and subscriptions tables
and installs the starter category taxonomy. It is idempotent: running it
against an initialized database changes nothing.`,

	RunE: runInitDB,
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := logger.GetGlobalLogger()

	db, err := config.OpenStore(ctx, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		return err
	}

	fmt.Println("Database initialized.")
	return nil
}

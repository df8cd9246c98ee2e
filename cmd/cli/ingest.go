package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargoplan/facility-service/internal/database"
	"github.com/cargoplan/facility-service/internal/dataset"
)

var ingestName string

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Load a dataset directory into the database",
	Long: `Load suppliers, customers, and shipments from a dataset directory and
persist them to Postgres so the HTTP service can optimize the dataset by name.
Replaces any previously stored dataset with the same name.`,
	Example: `  facility-service ingest ./data/germany
  facility-service ingest ./data/germany --name germany-2026`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestName, "name", "", "Dataset name (defaults to the directory name)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	dir := args[0]

	ds, err := dataset.LoadDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if ingestName != "" {
		ds.Name = ingestName
	}

	// Reject datasets the solver would refuse before touching the database.
	if _, _, err := ds.Flows(); err != nil {
		return fmt.Errorf("dataset invalid: %w", err)
	}

	if err := database.SaveDataset(ctx, ds); err != nil {
		return fmt.Errorf("failed to persist dataset: %w", err)
	}

	logger.Info().
		Str("dataset", ds.Name).
		Int("suppliers", len(ds.Suppliers)).
		Int("customers", len(ds.Customers)).
		Int("shipments", len(ds.Shipments)).
		Msg("Dataset ingested")
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargoplan/facility-service/internal/dataset"
	"github.com/cargoplan/facility-service/internal/solver"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Validate a dataset directory without solving",
	Long: `Load a dataset directory and run all validation checks: required tables,
coordinate ranges, shipment references, and volumes. Exits non-zero if the
dataset would be rejected by the solver.`,
	Example: `  facility-service validate ./data/germany`,
	Args:    cobra.ExactArgs(1),
	RunE:    runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	dir := args[0]

	ds, err := dataset.LoadDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("dataset invalid: %w", err)
	}

	req, err := ds.Request(solver.Defaults().DefaultRates())
	if err != nil {
		return fmt.Errorf("dataset invalid: %w", err)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("dataset invalid: %w", err)
	}

	logger.Info().
		Str("dataset", ds.Name).
		Int("suppliers", len(ds.Suppliers)).
		Int("customers", len(ds.Customers)).
		Int("shipments", len(ds.Shipments)).
		Msg("Dataset is valid")
	return nil
}

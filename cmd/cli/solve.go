package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cargoplan/facility-service/internal/dataset"
	"github.com/cargoplan/facility-service/internal/report"
	"github.com/cargoplan/facility-service/internal/solver"
)

var (
	solveKMLPath       string
	solveDistanceRate  float64
	solveVolumeRate    float64
	solveMaxIterations int
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve <dir>",
	Short: "Optimize warehouse placement for a dataset directory",
	Long: `Load suppliers, customers, and shipments from a dataset directory
(suppliers.csv/xlsx, customers.csv/xlsx, shipments.csv/xlsx), run the placement
optimization, and print a summary report. Optionally write a KML file with the
nodes, the optimal site, and the cost trajectory.`,
	Example: `  facility-service solve ./data/germany
  facility-service solve ./data/germany --kml result.kml
  facility-service solve ./data/germany --distance-rate 0.8 --volume-rate 12`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVar(&solveKMLPath, "kml", "", "Write a KML report to this path")
	solveCmd.Flags().Float64Var(&solveDistanceRate, "distance-rate", -1, "Cost per km per shipment (overrides config)")
	solveCmd.Flags().Float64Var(&solveVolumeRate, "volume-rate", -1, "Cost per m3 per shipment (overrides config)")
	solveCmd.Flags().IntVar(&solveMaxIterations, "max-iterations", 0, "Solver iteration limit (overrides config)")
}

func solverConfig() *solver.Config {
	sc := solver.Defaults()
	if cfg != nil {
		*sc = cfg.Solver
	}
	if solveDistanceRate >= 0 {
		sc.DistanceRatePerKm = solveDistanceRate
	}
	if solveVolumeRate >= 0 {
		sc.VolumeRatePerM3 = solveVolumeRate
	}
	if solveMaxIterations > 0 {
		sc.MaxIterations = solveMaxIterations
	}
	return sc
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	dir := args[0]

	ds, err := dataset.LoadDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Info().
		Str("dataset", ds.Name).
		Int("suppliers", len(ds.Suppliers)).
		Int("customers", len(ds.Customers)).
		Int("shipments", len(ds.Shipments)).
		Msg("Dataset loaded")

	sc := solverConfig()
	if err := sc.Validate(); err != nil {
		return err
	}

	req, err := ds.Request(sc.DefaultRates())
	if err != nil {
		return err
	}

	opt := solver.NewFacilityOptimizer(sc)
	res, err := opt.Optimize(ctx, req)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	if !res.Converged {
		logger.Warn().Str("status", res.Status).Msg("Solver did not converge, reporting best point found")
	}

	if err := report.WriteSummary(os.Stdout, ds, res); err != nil {
		return err
	}

	if solveKMLPath != "" {
		f, err := os.Create(solveKMLPath)
		if err != nil {
			return fmt.Errorf("failed to create KML file: %w", err)
		}
		defer f.Close()
		if err := report.WriteKML(f, ds, res); err != nil {
			return fmt.Errorf("failed to write KML: %w", err)
		}
		logger.Info().Str("path", solveKMLPath).Msg("KML report written")
	}

	return nil
}

package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cargoplan/facility-service/internal/dataset"
	"github.com/cargoplan/facility-service/internal/solver"
)

// WriteSummary prints a run summary in aligned columns for the CLI.
func WriteSummary(w io.Writer, ds *dataset.Dataset, res *solver.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Dataset\t%s\n", ds.Name)
	fmt.Fprintf(tw, "Suppliers\t%d\n", len(ds.Suppliers))
	fmt.Fprintf(tw, "Customers\t%d\n", len(ds.Customers))
	fmt.Fprintf(tw, "Shipments\t%d\n", len(ds.Shipments))
	fmt.Fprintf(tw, "Optimal latitude\t%.6f\n", res.Location.Lat)
	fmt.Fprintf(tw, "Optimal longitude\t%.6f\n", res.Location.Lon)
	fmt.Fprintf(tw, "Minimum total cost\t%.2f\n", res.Cost)
	if mean, err := meanLegKm(ds, res.Location); err == nil {
		fmt.Fprintf(tw, "Mean shipment leg\t%.1f km\n", mean)
	}
	fmt.Fprintf(tw, "Iterations\t%d\n", res.Iterations)
	fmt.Fprintf(tw, "Objective evaluations\t%d\n", res.FuncEvaluations)
	converged := "yes"
	if !res.Converged {
		converged = "no (" + res.Status + ")"
	}
	fmt.Fprintf(tw, "Converged\t%s\n", converged)

	return tw.Flush()
}

// meanLegKm averages the great-circle distance from the facility to the
// fixed end of every shipment.
func meanLegKm(ds *dataset.Dataset, facility solver.GeoPoint) (float64, error) {
	inbound, outbound, err := ds.Flows()
	if err != nil {
		return 0, err
	}
	flows := append(inbound, outbound...)
	if len(flows) == 0 {
		return 0, fmt.Errorf("no shipments")
	}

	var total float64
	for _, f := range flows {
		d, err := solver.DistanceKm(facility, f.Node.Location)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total / float64(len(flows)), nil
}

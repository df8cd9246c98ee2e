package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cargoplan/facility-service/internal/parsers/csv"
	"github.com/cargoplan/facility-service/internal/parsers/xlsx"
	"github.com/cargoplan/facility-service/internal/solver"
)

// File stems expected inside a dataset directory. Each may be a .csv or an
// .xlsx file; CSV wins when both exist.
const (
	suppliersStem = "suppliers"
	customersStem = "customers"
	shipmentsStem = "shipments"
)

// LoadDir reads the three dataset files from dir concurrently and returns
// a validated dataset. Any validation failure aborts the whole load; no
// partially populated dataset is ever returned.
func LoadDir(ctx context.Context, dir string) (*Dataset, error) {
	ds := &Dataset{Name: filepath.Base(dir)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		table, err := readTable(ctx, dir, suppliersStem)
		if err != nil {
			return err
		}
		ds.Suppliers, err = ParseSuppliers(table)
		if err != nil {
			return fmt.Errorf("%s: %w", suppliersStem, err)
		}
		return nil
	})
	g.Go(func() error {
		table, err := readTable(ctx, dir, customersStem)
		if err != nil {
			return err
		}
		ds.Customers, err = ParseCustomers(table)
		if err != nil {
			return fmt.Errorf("%s: %w", customersStem, err)
		}
		return nil
	})
	g.Go(func() error {
		table, err := readTable(ctx, dir, shipmentsStem)
		if err != nil {
			return err
		}
		ds.Shipments, err = ParseShipments(table)
		if err != nil {
			return fmt.Errorf("%s: %w", shipmentsStem, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(ds.Suppliers) == 0 {
		return nil, solver.ErrInsufficientData{Reason: "supplier file has no rows"}
	}
	if len(ds.Customers) == 0 {
		return nil, solver.ErrInsufficientData{Reason: "customer file has no rows"}
	}
	if len(ds.Shipments) == 0 {
		return nil, solver.ErrInsufficientData{Reason: "shipment file has no rows"}
	}

	log.Debug().
		Str("dir", dir).
		Int("suppliers", len(ds.Suppliers)).
		Int("customers", len(ds.Customers)).
		Int("shipments", len(ds.Shipments)).
		Msg("Dataset loaded")

	return ds, nil
}

// readTable loads <stem>.csv or <stem>.xlsx from dir.
func readTable(ctx context.Context, dir, stem string) (*csv.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	csvPath := filepath.Join(dir, stem+".csv")
	if content, err := os.ReadFile(csvPath); err == nil {
		table, err := csv.Parse(content, csv.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", csvPath, err)
		}
		return table, nil
	}

	xlsxPath := filepath.Join(dir, stem+".xlsx")
	if content, err := os.ReadFile(xlsxPath); err == nil {
		table, err := xlsx.ReadTable(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", xlsxPath, err)
		}
		return table, nil
	}

	return nil, fmt.Errorf("no %s.csv or %s.xlsx found in %s", stem, stem, strings.TrimSuffix(dir, "/"))
}

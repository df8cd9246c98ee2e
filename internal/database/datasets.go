package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cargoplan/facility-service/internal/dataset"
	"github.com/cargoplan/facility-service/internal/solver"
)

// LoadDataset assembles a dataset from the suppliers, customers, and
// shipments tables. Returns ErrInsufficientData when any part is empty so
// callers fail before touching the solver.
func LoadDataset(ctx context.Context, name string) (*dataset.Dataset, error) {
	p := Pool()
	if p == nil {
		return nil, fmt.Errorf("database not connected")
	}

	ds := &dataset.Dataset{Name: name}

	var err error
	if ds.Suppliers, err = loadNodes(ctx, "suppliers", name); err != nil {
		return nil, err
	}
	if ds.Customers, err = loadNodes(ctx, "customers", name); err != nil {
		return nil, err
	}
	if ds.Shipments, err = loadShipments(ctx, name); err != nil {
		return nil, err
	}

	if len(ds.Suppliers) == 0 {
		return nil, solver.ErrInsufficientData{Reason: fmt.Sprintf("dataset %s has no suppliers", name)}
	}
	if len(ds.Customers) == 0 {
		return nil, solver.ErrInsufficientData{Reason: fmt.Sprintf("dataset %s has no customers", name)}
	}
	if len(ds.Shipments) == 0 {
		return nil, solver.ErrInsufficientData{Reason: fmt.Sprintf("dataset %s has no shipments", name)}
	}
	return ds, nil
}

// SaveDataset replaces a named dataset's rows in one transaction.
func SaveDataset(ctx context.Context, ds *dataset.Dataset) error {
	p := Pool()
	if p == nil {
		return fmt.Errorf("database not connected")
	}

	tx, err := p.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"suppliers", "customers", "shipments"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE dataset = $1", table), ds.Name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	batch := &pgx.Batch{}
	for _, n := range ds.Suppliers {
		batch.Queue(`INSERT INTO suppliers (dataset, node_id, latitude, longitude) VALUES ($1, $2, $3, $4)`,
			ds.Name, n.ID, n.Location.Lat, n.Location.Lon)
	}
	for _, n := range ds.Customers {
		batch.Queue(`INSERT INTO customers (dataset, node_id, latitude, longitude) VALUES ($1, $2, $3, $4)`,
			ds.Name, n.ID, n.Location.Lat, n.Location.Lon)
	}
	for _, s := range ds.Shipments {
		batch.Queue(`INSERT INTO shipments (dataset, shipment_id, origin, destination, volume_m3) VALUES ($1, $2, $3, $4, $5)`,
			ds.Name, s.ID, s.Origin, s.Destination, s.VolumeM3)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert dataset rows: %w", err)
	}

	return tx.Commit(ctx)
}

func loadNodes(ctx context.Context, table, name string) ([]solver.Node, error) {
	rows, err := Pool().Query(ctx,
		fmt.Sprintf(`SELECT node_id, latitude, longitude FROM %s WHERE dataset = $1 ORDER BY node_id`, table), name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	var nodes []solver.Node
	for rows.Next() {
		var n solver.Node
		if err := rows.Scan(&n.ID, &n.Location.Lat, &n.Location.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func loadShipments(ctx context.Context, name string) ([]dataset.Shipment, error) {
	rows, err := Pool().Query(ctx,
		`SELECT shipment_id, origin, destination, volume_m3 FROM shipments WHERE dataset = $1 ORDER BY shipment_id`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipments: %w", err)
	}
	defer rows.Close()

	var shipments []dataset.Shipment
	for rows.Next() {
		var s dataset.Shipment
		if err := rows.Scan(&s.ID, &s.Origin, &s.Destination, &s.VolumeM3); err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		shipments = append(shipments, s)
	}
	return shipments, rows.Err()
}

package database

import (
	"context"
	"fmt"
)

// schema holds the DDL for the placement tables. Datasets are namespaced
// by name; runs reference the dataset they were computed from.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		dataset    TEXT NOT NULL,
		node_id    TEXT NOT NULL,
		latitude   DOUBLE PRECISION NOT NULL,
		longitude  DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (dataset, node_id)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		dataset    TEXT NOT NULL,
		node_id    TEXT NOT NULL,
		latitude   DOUBLE PRECISION NOT NULL,
		longitude  DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (dataset, node_id)
	)`,
	`CREATE TABLE IF NOT EXISTS shipments (
		dataset     TEXT NOT NULL,
		shipment_id TEXT NOT NULL,
		origin      TEXT NOT NULL,
		destination TEXT NOT NULL,
		volume_m3   DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (dataset, shipment_id)
	)`,
	`CREATE TABLE IF NOT EXISTS optimization_runs (
		id          BIGSERIAL PRIMARY KEY,
		dataset     TEXT NOT NULL,
		latitude    DOUBLE PRECISION NOT NULL,
		longitude   DOUBLE PRECISION NOT NULL,
		total_cost  DOUBLE PRECISION NOT NULL,
		converged   BOOLEAN NOT NULL,
		status      TEXT NOT NULL,
		iterations  INTEGER NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS optimization_trajectory (
		run_id    BIGINT NOT NULL REFERENCES optimization_runs(id) ON DELETE CASCADE,
		iteration INTEGER NOT NULL,
		cost      DOUBLE PRECISION NOT NULL,
		latitude  DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, iteration)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_dataset ON optimization_runs(dataset)`,
}

// EnsureSchema creates the placement tables if they do not exist.
func EnsureSchema(ctx context.Context) error {
	p := Pool()
	if p == nil {
		return fmt.Errorf("database not connected")
	}
	for _, stmt := range schema {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
	}
	return nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cargoplan/facility-service/internal/solver"
)

// RunRecord is one persisted optimization run.
type RunRecord struct {
	ID         int64     `json:"id"`
	Dataset    string    `json:"dataset"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	TotalCost  float64   `json:"totalCost"`
	Converged  bool      `json:"converged"`
	Status     string    `json:"status"`
	Iterations int       `json:"iterations"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SaveRun persists a run and its trajectory in one transaction.
func SaveRun(ctx context.Context, datasetName string, res *solver.Result) (int64, error) {
	p := Pool()
	if p == nil {
		return 0, fmt.Errorf("database not connected")
	}

	tx, err := p.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO optimization_runs (dataset, latitude, longitude, total_cost, converged, status, iterations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		datasetName, res.Location.Lat, res.Location.Lon, res.Cost, res.Converged, res.Status, res.Iterations,
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, tp := range res.Trajectory {
		batch.Queue(
			`INSERT INTO optimization_trajectory (run_id, iteration, cost, latitude, longitude)
			 VALUES ($1, $2, $3, $4, $5)`,
			runID, tp.Iteration, tp.Cost, tp.Location.Lat, tp.Location.Lon,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to insert trajectory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	p := Pool()
	if p == nil {
		return nil, fmt.Errorf("database not connected")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := p.Query(ctx,
		`SELECT id, dataset, latitude, longitude, total_cost, converged, status, iterations, created_at
		 FROM optimization_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunRecord, 0, limit)
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Dataset, &r.Latitude, &r.Longitude, &r.TotalCost,
			&r.Converged, &r.Status, &r.Iterations, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by ID, or pgx.ErrNoRows when absent.
func GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	p := Pool()
	if p == nil {
		return nil, fmt.Errorf("database not connected")
	}

	var r RunRecord
	err := p.QueryRow(ctx,
		`SELECT id, dataset, latitude, longitude, total_cost, converged, status, iterations, created_at
		 FROM optimization_runs WHERE id = $1`, id,
	).Scan(&r.ID, &r.Dataset, &r.Latitude, &r.Longitude, &r.TotalCost,
		&r.Converged, &r.Status, &r.Iterations, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetTrajectory returns a run's trajectory ordered by iteration.
func GetTrajectory(ctx context.Context, runID int64) ([]solver.TrajectoryPoint, error) {
	p := Pool()
	if p == nil {
		return nil, fmt.Errorf("database not connected")
	}

	rows, err := p.Query(ctx,
		`SELECT iteration, cost, latitude, longitude
		 FROM optimization_trajectory WHERE run_id = $1 ORDER BY iteration`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trajectory: %w", err)
	}
	defer rows.Close()

	var points []solver.TrajectoryPoint
	for rows.Next() {
		var tp solver.TrajectoryPoint
		if err := rows.Scan(&tp.Iteration, &tp.Cost, &tp.Location.Lat, &tp.Location.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan trajectory point: %w", err)
		}
		points = append(points, tp)
	}
	return points, rows.Err()
}

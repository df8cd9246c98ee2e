package sweepers

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cargoplan/facility-service/internal/database"
	"github.com/cargoplan/facility-service/internal/solver"
)

func setupSweeperTestDB(t *testing.T) func() {
	if testing.Short() {
		t.Skip("skipping sweeper test in short mode (requires Docker)")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "Failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	err = database.Connect(ctx, connStr, 5, 1, time.Hour, 30*time.Minute)
	require.NoError(t, err, "Failed to connect pool")

	err = database.EnsureSchema(ctx)
	require.NoError(t, err, "Failed to apply schema")

	return func() {
		database.Close()
		testcontainers.TerminateContainer(container)
	}
}

func saveRunAt(ctx context.Context, t *testing.T, name string, age time.Duration) int64 {
	res := &solver.Result{
		Location:   solver.GeoPoint{Lat: 45, Lon: 15},
		Cost:       100,
		Converged:  true,
		Status:     "GradientThreshold",
		Iterations: 1,
		Trajectory: []solver.TrajectoryPoint{
			{Iteration: 0, Cost: 100, Location: solver.GeoPoint{Lat: 45, Lon: 15}},
		},
	}
	runID, err := database.SaveRun(ctx, name, res)
	require.NoError(t, err)

	if age > 0 {
		_, err = database.Pool().Exec(ctx,
			`UPDATE optimization_runs SET created_at = $1 WHERE id = $2`,
			time.Now().Add(-age), runID)
		require.NoError(t, err)
	}
	return runID
}

// TestPruneExpiredRuns verifies that only runs older than the retention
// window are deleted, and their trajectory rows go with them.
func TestPruneExpiredRuns(t *testing.T) {
	cleanup := setupSweeperTestDB(t)
	defer cleanup()

	ctx := context.Background()

	oldID := saveRunAt(ctx, t, "stale", 48*time.Hour)
	freshID := saveRunAt(ctx, t, "fresh", 0)

	logger := zerolog.Nop()
	sweeper := NewRunSweeper(database.Pool(), &logger, time.Hour, 24*time.Hour)
	require.NoError(t, sweeper.PruneExpiredRuns(ctx))

	_, err := database.GetRun(ctx, oldID)
	assert.Error(t, err, "expired run should be gone")

	fresh, err := database.GetRun(ctx, freshID)
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh.Dataset)

	points, err := database.GetTrajectory(ctx, oldID)
	require.NoError(t, err)
	assert.Empty(t, points, "trajectory rows should cascade with the run")

	points, err = database.GetTrajectory(ctx, freshID)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

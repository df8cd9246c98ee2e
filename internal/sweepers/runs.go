package sweepers

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// RunSweeper periodically prunes old optimization runs. Trajectory rows
// are removed by the cascade on the runs table.
type RunSweeper struct {
	pool      *pgxpool.Pool
	logger    *zerolog.Logger
	interval  time.Duration
	retention time.Duration
	stopChan  chan struct{}
}

// NewRunSweeper creates a sweeper that deletes runs older than retention.
func NewRunSweeper(pool *pgxpool.Pool, logger *zerolog.Logger, interval, retention time.Duration) *RunSweeper {
	return &RunSweeper{
		pool:      pool,
		logger:    logger,
		interval:  interval,
		retention: retention,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the periodic pruning sweep
func (s *RunSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("retention", s.retention).
		Msg("Starting run sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Run sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Run sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if err := s.PruneExpiredRuns(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to prune expired runs")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *RunSweeper) Stop() {
	close(s.stopChan)
}

// PruneExpiredRuns deletes runs whose created_at fell outside the
// retention window.
func (s *RunSweeper) PruneExpiredRuns(ctx context.Context) error {
	cutoff := time.Now().Add(-s.retention)

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM optimization_runs WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete expired runs: %w", err)
	}

	if tag.RowsAffected() > 0 {
		s.logger.Info().
			Int64("deleted", tag.RowsAffected()).
			Msg("Pruned expired runs")
	}

	return nil
}

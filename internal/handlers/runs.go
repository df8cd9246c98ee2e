package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/cargoplan/facility-service/internal/database"
)

// ListRuns returns recent optimization runs
// GET /internal/runs?limit=N
func ListRuns(c *gin.Context) {
	if database.Pool() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 500"})
			return
		}
		limit = parsed
	}

	runs, err := database.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun returns a single optimization run
// GET /internal/runs/:runId
func GetRun(c *gin.Context) {
	if database.Pool() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	id, err := strconv.ParseInt(c.Param("runId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := database.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetRunTrajectory returns the cost trajectory of a run
// GET /internal/runs/:runId/trajectory
func GetRunTrajectory(c *gin.Context) {
	if database.Pool() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	id, err := strconv.ParseInt(c.Param("runId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	points, err := database.GetTrajectory(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load trajectory"})
		return
	}

	trajectory := make([]TrajectoryPoint, len(points))
	for i, tp := range points {
		trajectory[i] = TrajectoryPoint{
			Iteration: tp.Iteration,
			Cost:      tp.Cost,
			Latitude:  tp.Location.Lat,
			Longitude: tp.Location.Lon,
		}
	}
	c.JSON(http.StatusOK, gin.H{"trajectory": trajectory})
}

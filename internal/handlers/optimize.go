package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cargoplan/facility-service/internal/database"
	"github.com/cargoplan/facility-service/internal/dataset"
	"github.com/cargoplan/facility-service/internal/solver"
)

// ============================================================================
// Facility Placement Endpoints
// ============================================================================

// NodeRecord is a supplier or customer in an inline placement request
type NodeRecord struct {
	ID        string  `json:"id" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// ShipmentRecord is one shipment row; exactly one side must be "Warehouse"
type ShipmentRecord struct {
	ID          string  `json:"id" binding:"required"`
	Origin      string  `json:"origin" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	VolumeM3    float64 `json:"volumeM3" binding:"min=0"`
}

// RatesRecord overrides the configured cost model tariffs
type RatesRecord struct {
	DistancePerKm *float64 `json:"distancePerKm,omitempty"`
	VolumePerM3   *float64 `json:"volumePerM3,omitempty"`
}

// OptimizeRequest is an inline placement request carrying the whole dataset
type OptimizeRequest struct {
	Suppliers []NodeRecord     `json:"suppliers" binding:"required,min=1"`
	Customers []NodeRecord     `json:"customers" binding:"required,min=1"`
	Shipments []ShipmentRecord `json:"shipments" binding:"required,min=1"`
	Rates     *RatesRecord     `json:"rates,omitempty"`
}

// TrajectoryPoint is one cost trajectory entry in the response
type TrajectoryPoint struct {
	Iteration int     `json:"iteration"`
	Cost      float64 `json:"cost"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OptimizeResponse is the placement result
type OptimizeResponse struct {
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	TotalCost  float64           `json:"totalCost"`
	Converged  bool              `json:"converged"`
	Status     string            `json:"status"`
	Iterations int               `json:"iterations"`
	Trajectory []TrajectoryPoint `json:"trajectory"`
	RunID      *int64            `json:"runId,omitempty"`
}

// Global solver instances (initialized by the application)
var (
	facilityOptimizer *solver.FacilityOptimizer
	solverConfig      *solver.Config
)

// InitSolver initializes the solver instances.
// This should be called during application startup.
func InitSolver(config *solver.Config) {
	solverConfig = config
	facilityOptimizer = solver.NewFacilityOptimizer(config)
}

// Optimize handles inline facility placement
// POST /internal/facility/optimize
func Optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ds := &dataset.Dataset{
		Name:      "inline",
		Suppliers: toNodes(req.Suppliers),
		Customers: toNodes(req.Customers),
		Shipments: toShipments(req.Shipments),
	}

	res, ok := runPlacement(c, ds, req.Rates)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(res, nil))
}

// OptimizeDataset runs placement on a dataset stored in the database and
// persists the run
// POST /internal/datasets/:name/optimize
func OptimizeDataset(c *gin.Context) {
	name := c.Param("name")

	if database.Pool() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	ds, err := database.LoadDataset(c.Request.Context(), name)
	if err != nil {
		respondPlacementError(c, err)
		return
	}

	var rates *RatesRecord
	if c.Request.ContentLength > 0 {
		var body struct {
			Rates *RatesRecord `json:"rates,omitempty"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rates = body.Rates
	}

	res, ok := runPlacement(c, ds, rates)
	if !ok {
		return
	}

	runID, err := database.SaveRun(c.Request.Context(), name, res)
	if err != nil {
		log.Error().Err(err).Str("dataset", name).Msg("Failed to persist run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist run"})
		return
	}
	c.JSON(http.StatusOK, toResponse(res, &runID))
}

// runPlacement builds the solver request and executes it, writing an error
// response on failure.
func runPlacement(c *gin.Context, ds *dataset.Dataset, override *RatesRecord) (*solver.Result, bool) {
	rates := solverConfig.DefaultRates()
	if override != nil {
		if override.DistancePerKm != nil {
			rates.DistancePerKm = *override.DistancePerKm
		}
		if override.VolumePerM3 != nil {
			rates.VolumePerM3 = *override.VolumePerM3
		}
	}

	req, err := ds.Request(rates)
	if err != nil {
		respondPlacementError(c, err)
		return nil, false
	}

	res, err := facilityOptimizer.Optimize(c.Request.Context(), req)
	if err != nil {
		respondPlacementError(c, err)
		return nil, false
	}
	return res, true
}

// respondPlacementError maps domain errors to HTTP statuses: coordinate
// and structural problems are the client's fault, missing data is
// unprocessable, anything else is a server error.
func respondPlacementError(c *gin.Context, err error) {
	var insufficient solver.ErrInsufficientData
	var unresolved dataset.ErrUnresolvedReference
	var malformed dataset.ErrMalformedShipment

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &unresolved), errors.As(err, &malformed), solver.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("Placement run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "optimization failed"})
	}
}

func toNodes(records []NodeRecord) []solver.Node {
	nodes := make([]solver.Node, len(records))
	for i, r := range records {
		nodes[i] = solver.Node{
			ID:       r.ID,
			Location: solver.GeoPoint{Lat: r.Latitude, Lon: r.Longitude},
		}
	}
	return nodes
}

func toShipments(records []ShipmentRecord) []dataset.Shipment {
	shipments := make([]dataset.Shipment, len(records))
	for i, r := range records {
		shipments[i] = dataset.Shipment{
			ID:          r.ID,
			Origin:      r.Origin,
			Destination: r.Destination,
			VolumeM3:    r.VolumeM3,
		}
	}
	return shipments
}

func toResponse(res *solver.Result, runID *int64) OptimizeResponse {
	trajectory := make([]TrajectoryPoint, len(res.Trajectory))
	for i, tp := range res.Trajectory {
		trajectory[i] = TrajectoryPoint{
			Iteration: tp.Iteration,
			Cost:      tp.Cost,
			Latitude:  tp.Location.Lat,
			Longitude: tp.Location.Lon,
		}
	}
	return OptimizeResponse{
		Latitude:   res.Location.Lat,
		Longitude:  res.Location.Lon,
		TotalCost:  res.Cost,
		Converged:  res.Converged,
		Status:     res.Status,
		Iterations: res.Iterations,
		Trajectory: trajectory,
		RunID:      runID,
	}
}

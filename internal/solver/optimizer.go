package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// FacilityOptimizer drives a bounded continuous minimization of the total
// logistics cost over the 2D coordinate space.
type FacilityOptimizer struct {
	config  *Config
	metrics *MetricsRecorder
	logger  zerolog.Logger
}

// NewFacilityOptimizer creates a new facility optimizer.
func NewFacilityOptimizer(config *Config) *FacilityOptimizer {
	return &FacilityOptimizer{
		config:  config,
		metrics: NewMetricsRecorder(),
		logger:  log.With().Str("component", "facility_optimizer").Logger(),
	}
}

// boundingBox is the search region: [latMin, latMax] x [lonMin, lonMax].
// The box is derived from the supplier set only. Customers are deliberately
// excluded, which can clip the unconstrained optimum on asymmetric data.
type boundingBox struct {
	latMin, latMax float64
	lonMin, lonMax float64
}

func supplierBounds(suppliers []Node) boundingBox {
	b := boundingBox{
		latMin: suppliers[0].Location.Lat, latMax: suppliers[0].Location.Lat,
		lonMin: suppliers[0].Location.Lon, lonMax: suppliers[0].Location.Lon,
	}
	for _, s := range suppliers[1:] {
		b.latMin = math.Min(b.latMin, s.Location.Lat)
		b.latMax = math.Max(b.latMax, s.Location.Lat)
		b.lonMin = math.Min(b.lonMin, s.Location.Lon)
		b.lonMax = math.Max(b.lonMax, s.Location.Lon)
	}
	return b
}

func (b boundingBox) degenerate() bool {
	return b.latMin == b.latMax && b.lonMin == b.lonMax
}

func (b boundingBox) clamp(p GeoPoint) GeoPoint {
	return GeoPoint{
		Lat: math.Min(math.Max(p.Lat, b.latMin), b.latMax),
		Lon: math.Min(math.Max(p.Lon, b.lonMin), b.lonMax),
	}
}

// contains reports whether p lies inside the box, with a small tolerance
// for floating-point noise at the edges.
func (b boundingBox) contains(p GeoPoint) bool {
	const eps = 1e-9
	return p.Lat >= b.latMin-eps && p.Lat <= b.latMax+eps &&
		p.Lon >= b.lonMin-eps && p.Lon <= b.lonMax+eps
}

// toPoint maps an unconstrained solver iterate into the box via the sine
// transform x = lo + (hi-lo)*(sin(z)+1)/2, so every evaluated candidate is
// inside the bounds regardless of where the line search steps. An axis with
// zero span is held fixed at its bound.
func (b boundingBox) toPoint(z []float64) GeoPoint {
	return GeoPoint{
		Lat: mapAxis(z[0], b.latMin, b.latMax),
		Lon: mapAxis(z[1], b.lonMin, b.lonMax),
	}
}

func mapAxis(z, lo, hi float64) float64 {
	if hi == lo {
		return lo
	}
	return lo + (hi-lo)*(math.Sin(z)+1)/2
}

// fromPoint inverts the sine transform for the initial guess. The
// normalized position is kept strictly inside (-1, 1) so the transform's
// derivative does not vanish when the guess sits on a bound.
func (b boundingBox) fromPoint(p GeoPoint) []float64 {
	return []float64{
		unmapAxis(p.Lat, b.latMin, b.latMax),
		unmapAxis(p.Lon, b.lonMin, b.lonMax),
	}
}

func unmapAxis(x, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	u := 2*(x-lo)/(hi-lo) - 1
	u = math.Min(math.Max(u, -0.999999), 0.999999)
	return math.Asin(u)
}

// initialGuess is the midpoint of the mean supplier location and the mean
// customer location. Deterministic, so repeated runs on the same inputs
// produce the same trajectory. Note this averages the two set means, not a
// volume-weighted centroid over all points.
func initialGuess(suppliers, customers []Node) GeoPoint {
	var sLat, sLon, cLat, cLon float64
	for _, s := range suppliers {
		sLat += s.Location.Lat
		sLon += s.Location.Lon
	}
	for _, c := range customers {
		cLat += c.Location.Lat
		cLon += c.Location.Lon
	}
	sn, cn := float64(len(suppliers)), float64(len(customers))
	return GeoPoint{
		Lat: (sLat/sn + cLat/cn) / 2,
		Lon: (sLon/sn + cLon/cn) / 2,
	}
}

// trajectoryRecorder appends one trajectory entry per accepted solver
// iteration. It also carries the request context so a cancelled run stops
// at the next iteration boundary.
type trajectoryRecorder struct {
	ctx    context.Context
	box    boundingBox
	points []TrajectoryPoint
}

func (r *trajectoryRecorder) Init() error { return nil }

func (r *trajectoryRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op != optimize.MajorIteration {
		return nil
	}
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.points = append(r.points, TrajectoryPoint{
		Iteration: stats.MajorIterations,
		Cost:      loc.F,
		Location:  r.box.toPoint(loc.X),
	})
	return nil
}

// Optimize finds the facility location minimizing total shipment cost,
// bounded by the supplier coordinate box, recording the cost trajectory at
// every accepted iteration.
func (o *FacilityOptimizer) Optimize(ctx context.Context, req *Request) (*Result, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		o.metrics.RecordError("validation")
		return nil, err
	}

	table := newFlowTable(req.Inbound, req.Outbound)
	box := supplierBounds(req.Suppliers)
	guess := box.clamp(initialGuess(req.Suppliers, req.Customers))

	initialCost := table.totalCost(guess.Lat, guess.Lon, req.Rates)
	if math.IsNaN(initialCost) || math.IsInf(initialCost, 0) {
		o.metrics.RecordError("validation")
		return nil, ErrInsufficientData{Reason: "objective is not finite at the initial guess"}
	}

	rec := &trajectoryRecorder{ctx: ctx, box: box}
	rec.points = append(rec.points, TrajectoryPoint{Iteration: 0, Cost: initialCost, Location: guess})

	// A single supplier collapses the box to a point: the search is trivial
	// and the solver has nothing to do.
	if box.degenerate() {
		res := &Result{
			Location:        guess,
			Cost:            initialCost,
			Converged:       true,
			Status:          "DegenerateBounds",
			Iterations:      0,
			FuncEvaluations: 1,
			Trajectory:      rec.points,
		}
		o.metrics.RecordRun(time.Since(startTime), 0, table.len(), true)
		return res, nil
	}

	objective := func(z []float64) float64 {
		p := box.toPoint(z)
		return table.totalCost(p.Lat, p.Lon, req.Rates)
	}

	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, z []float64) {
			fd.Gradient(grad, objective, z, nil)
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   o.config.MaxIterations,
		GradientThreshold: o.config.GradientThreshold,
		Recorder:          rec,
	}

	solution, err := optimize.Minimize(problem, box.fromPoint(guess), settings, &optimize.LBFGS{})
	if err != nil {
		if ctx.Err() != nil {
			o.metrics.RecordError("solver")
			return nil, ctx.Err()
		}
		if solution == nil || math.IsNaN(solution.F) {
			o.metrics.RecordError("solver")
			return nil, fmt.Errorf("minimization failed: %w", err)
		}
		// The line search can fail near a non-smooth point; the best-found
		// iterate is still usable, surfaced as a non-converged result.
		o.logger.Warn().Err(err).Msg("Solver stopped early, returning best-found iterate")
	}

	converged := err == nil && convergedStatus(solution.Status)

	res := &Result{
		Location:        box.toPoint(solution.X),
		Cost:            solution.F,
		Converged:       converged,
		Status:          solution.Status.String(),
		Iterations:      solution.Stats.MajorIterations,
		FuncEvaluations: solution.Stats.FuncEvaluations,
		Trajectory:      rec.points,
	}

	o.metrics.RecordRun(time.Since(startTime), res.Iterations, table.len(), converged)
	o.logger.Debug().
		Float64("lat", res.Location.Lat).
		Float64("lon", res.Location.Lon).
		Float64("cost", res.Cost).
		Int("iterations", res.Iterations).
		Bool("converged", converged).
		Msg("Placement run finished")

	return res, nil
}

// convergedStatus reports whether the solver stopped because a convergence
// criterion was met, as opposed to exhausting an iteration or time budget.
func convergedStatus(s optimize.Status) bool {
	switch s {
	case optimize.GradientThreshold, optimize.FunctionConvergence,
		optimize.StepConvergence, optimize.FunctionThreshold,
		optimize.MethodConverge, optimize.Success:
		return true
	default:
		return false
	}
}

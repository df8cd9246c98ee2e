package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, lat, lon float64) Node {
	return Node{ID: id, Location: GeoPoint{Lat: lat, Lon: lon}}
}

func inboundFor(n Node, vol float64) Flow {
	return Flow{ShipmentID: "in_" + n.ID, Node: n, VolumeM3: vol}
}

func outboundFor(n Node, vol float64) Flow {
	return Flow{ShipmentID: "out_" + n.ID, Node: n, VolumeM3: vol}
}

func TestOptimizeCoincidentPoints(t *testing.T) {
	// Single supplier and customer at the same spot: the only feasible point
	// is that spot, and the cost is volume-only.
	s := node("s1", 50, 10)
	c := node("c1", 50, 10)
	req := &Request{
		Inbound:   []Flow{inboundFor(s, 100)},
		Outbound:  []Flow{outboundFor(c, 100)},
		Suppliers: []Node{s},
		Customers: []Node{c},
		Rates:     testRates,
	}

	res, err := NewFacilityOptimizer(Defaults()).Optimize(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.Location.Lat)
	assert.Equal(t, 10.0, res.Location.Lon)
	assert.Equal(t, 2000.0, res.Cost)
	assert.True(t, res.Converged)
	assert.GreaterOrEqual(t, len(res.Trajectory), 1)
}

func TestOptimizeSupplierOnlyBounds(t *testing.T) {
	// Two suppliers share longitude 0, one customer sits at longitude 20.
	// Bounds come from suppliers only, so the optimal longitude collapses
	// to 0 even though the unconstrained optimum would drift east.
	s1, s2 := node("s1", 40, 0), node("s2", 60, 0)
	c := node("c1", 50, 20)
	req := &Request{
		Inbound:   []Flow{inboundFor(s1, 50), inboundFor(s2, 50)},
		Outbound:  []Flow{outboundFor(c, 50)},
		Suppliers: []Node{s1, s2},
		Customers: []Node{c},
		Rates:     testRates,
	}

	res, err := NewFacilityOptimizer(Defaults()).Optimize(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Location.Lon)
	assert.GreaterOrEqual(t, res.Location.Lat, 40.0)
	assert.LessOrEqual(t, res.Location.Lat, 60.0)
	assert.Greater(t, res.Cost, 0.0)
}

func TestOptimizeBoundsContainment(t *testing.T) {
	suppliers := []Node{node("s1", 42, 4), node("s2", 55, 18), node("s3", 48, -2)}
	customers := []Node{node("c1", 62, 25), node("c2", 36, -8)}
	req := &Request{
		Inbound:   []Flow{inboundFor(suppliers[0], 80), inboundFor(suppliers[1], 40), inboundFor(suppliers[2], 60)},
		Outbound:  []Flow{outboundFor(customers[0], 90), outboundFor(customers[1], 30)},
		Suppliers: suppliers,
		Customers: customers,
		Rates:     testRates,
	}

	res, err := NewFacilityOptimizer(Defaults()).Optimize(context.Background(), req)
	require.NoError(t, err)

	box := supplierBounds(suppliers)
	assert.True(t, box.contains(res.Location))
	for _, p := range res.Trajectory {
		assert.True(t, box.contains(p.Location), "iteration %d left the bounds", p.Iteration)
		assert.GreaterOrEqual(t, p.Cost, 0.0)
	}
}

func TestOptimizeTrajectoryOrderedAndImproving(t *testing.T) {
	suppliers := []Node{node("s1", 40, 5), node("s2", 58, 15)}
	customers := []Node{node("c1", 50, 10)}
	req := &Request{
		Inbound:   []Flow{inboundFor(suppliers[0], 70), inboundFor(suppliers[1], 70)},
		Outbound:  []Flow{outboundFor(customers[0], 140)},
		Suppliers: suppliers,
		Customers: customers,
		Rates:     testRates,
	}

	res, err := NewFacilityOptimizer(Defaults()).Optimize(context.Background(), req)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Trajectory), 1)

	assert.Equal(t, 0, res.Trajectory[0].Iteration)
	for i := 1; i < len(res.Trajectory); i++ {
		assert.Greater(t, res.Trajectory[i].Iteration, res.Trajectory[i-1].Iteration)
	}

	initial := res.Trajectory[0].Cost
	final := res.Trajectory[len(res.Trajectory)-1].Cost
	assert.LessOrEqual(t, final, initial)
	assert.LessOrEqual(t, res.Cost, initial)
}

func TestOptimizeIterationLimitBestEffort(t *testing.T) {
	// Starving the solver of iterations must not fail the run: the best
	// point found so far comes back flagged as non-converged, still inside
	// the supplier box.
	s1, s2 := node("s1", 40, 0), node("s2", 60, 0)
	c := node("c1", 50, 20)
	req := &Request{
		Inbound:   []Flow{inboundFor(s1, 50), inboundFor(s2, 50)},
		Outbound:  []Flow{outboundFor(c, 50)},
		Suppliers: []Node{s1, s2},
		Customers: []Node{c},
		Rates:     testRates,
	}

	cfg := Defaults()
	cfg.MaxIterations = 1

	res, err := NewFacilityOptimizer(cfg).Optimize(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.Equal(t, "IterationLimit", res.Status)
	assert.Equal(t, 1, res.Iterations)
	assert.True(t, supplierBounds(req.Suppliers).contains(res.Location))
	assert.Greater(t, res.Cost, 0.0)
}

func TestOptimizeDeterministic(t *testing.T) {
	suppliers := []Node{node("s1", 43, 2), node("s2", 57, 19), node("s3", 50, 9)}
	customers := []Node{node("c1", 47, 13), node("c2", 53, 6)}
	req := &Request{
		Inbound:   []Flow{inboundFor(suppliers[0], 25), inboundFor(suppliers[1], 75), inboundFor(suppliers[2], 50)},
		Outbound:  []Flow{outboundFor(customers[0], 100), outboundFor(customers[1], 50)},
		Suppliers: suppliers,
		Customers: customers,
		Rates:     testRates,
	}

	opt := NewFacilityOptimizer(Defaults())
	first, err := opt.Optimize(context.Background(), req)
	require.NoError(t, err)
	second, err := opt.Optimize(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Location, second.Location)
	assert.Equal(t, first.Cost, second.Cost)
	assert.Equal(t, len(first.Trajectory), len(second.Trajectory))
}

func TestOptimizeInsufficientData(t *testing.T) {
	opt := NewFacilityOptimizer(Defaults())

	cases := []struct {
		name string
		req  *Request
	}{
		{"no suppliers", &Request{
			Customers: []Node{node("c1", 50, 10)},
			Outbound:  []Flow{outboundFor(node("c1", 50, 10), 10)},
			Rates:     testRates,
		}},
		{"no customers", &Request{
			Suppliers: []Node{node("s1", 50, 10)},
			Inbound:   []Flow{inboundFor(node("s1", 50, 10), 10)},
			Rates:     testRates,
		}},
		{"no shipments", &Request{
			Suppliers: []Node{node("s1", 50, 10)},
			Customers: []Node{node("c1", 51, 11)},
			Rates:     testRates,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := opt.Optimize(context.Background(), tc.req)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.IsType(t, ErrInsufficientData{}, err)
		})
	}
}

func TestOptimizeRejectsInvalidCoordinates(t *testing.T) {
	bad := node("s1", 95, 10)
	req := &Request{
		Inbound:   []Flow{inboundFor(bad, 10)},
		Outbound:  []Flow{outboundFor(node("c1", 50, 10), 10)},
		Suppliers: []Node{bad},
		Customers: []Node{node("c1", 50, 10)},
		Rates:     testRates,
	}

	_, err := NewFacilityOptimizer(Defaults()).Optimize(context.Background(), req)
	require.Error(t, err)
	assert.IsType(t, ErrInvalidCoordinate{}, err)
	assert.True(t, IsValidationError(err))
}

func TestOptimizeCancelledContext(t *testing.T) {
	suppliers := []Node{node("s1", 40, 5), node("s2", 58, 15)}
	customers := []Node{node("c1", 50, 10)}
	req := &Request{
		Inbound:   []Flow{inboundFor(suppliers[0], 70), inboundFor(suppliers[1], 70)},
		Outbound:  []Flow{outboundFor(customers[0], 140)},
		Suppliers: suppliers,
		Customers: customers,
		Rates:     testRates,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFacilityOptimizer(Defaults()).Optimize(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInitialGuessMeanOfMeans(t *testing.T) {
	suppliers := []Node{node("s1", 40, 0), node("s2", 60, 10)}
	customers := []Node{node("c1", 30, 20)}

	guess := initialGuess(suppliers, customers)
	assert.InDelta(t, 40.0, guess.Lat, 1e-12) // (50 + 30) / 2
	assert.InDelta(t, 12.5, guess.Lon, 1e-12) // (5 + 20) / 2
}

func TestBoundingBoxTransform(t *testing.T) {
	box := boundingBox{latMin: 40, latMax: 60, lonMin: 0, lonMax: 20}

	// Round-trip through the sine transform stays near the original point.
	p := GeoPoint{Lat: 47, Lon: 13}
	back := box.toPoint(box.fromPoint(p))
	assert.InDelta(t, p.Lat, back.Lat, 1e-9)
	assert.InDelta(t, p.Lon, back.Lon, 1e-9)

	// Any z maps inside the box.
	for _, z := range [][]float64{{0, 0}, {100, -100}, {-3.2, 7.9}} {
		assert.True(t, box.contains(box.toPoint(z)))
	}

	// Degenerate axis is held at its bound.
	deg := boundingBox{latMin: 50, latMax: 50, lonMin: 0, lonMax: 20}
	assert.Equal(t, 50.0, deg.toPoint([]float64{123, 0}).Lat)
}

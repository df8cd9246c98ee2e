package solver

// flowTable holds the fixed side of every shipment in contiguous slices so
// the objective evaluation is a flat loop with no per-row allocation. The
// optimizer evaluates it thousands of times per run.
type flowTable struct {
	lats []float64
	lons []float64
	vols []float64
}

// newFlowTable flattens inbound then outbound flows. Direction does not
// change the numeric result (distance is symmetric) but the ordering is
// kept stable for reproducibility.
func newFlowTable(inbound, outbound []Flow) flowTable {
	n := len(inbound) + len(outbound)
	t := flowTable{
		lats: make([]float64, 0, n),
		lons: make([]float64, 0, n),
		vols: make([]float64, 0, n),
	}
	for _, f := range inbound {
		t.lats = append(t.lats, f.Node.Location.Lat)
		t.lons = append(t.lons, f.Node.Location.Lon)
		t.vols = append(t.vols, f.VolumeM3)
	}
	for _, f := range outbound {
		t.lats = append(t.lats, f.Node.Location.Lat)
		t.lons = append(t.lons, f.Node.Location.Lon)
		t.vols = append(t.vols, f.VolumeM3)
	}
	return t
}

func (t flowTable) len() int { return len(t.vols) }

// totalCost sums the shipment cost of every flow against the candidate
// facility position. Pure: no I/O, no mutation of the table.
func (t flowTable) totalCost(lat, lon float64, rates Rates) float64 {
	var total float64
	for i := range t.vols {
		d := HaversineKm(t.lats[i], t.lons[i], lat, lon)
		total += ShipmentCost(d, t.vols[i], rates)
	}
	return total
}

// TotalCost is the aggregate objective: the summed shipment cost of all
// inbound and outbound flows for a candidate facility location. Safe to
// call repeatedly with different candidates; the flow slices are read-only.
func TotalCost(candidate GeoPoint, inbound, outbound []Flow, rates Rates) float64 {
	return newFlowTable(inbound, outbound).totalCost(candidate.Lat, candidate.Lon, rates)
}

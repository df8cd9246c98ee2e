// Package report renders optimization results for human consumption: a KML
// map of the network and a plain-text run summary.
package report

import (
	"fmt"
	"io"

	kml "github.com/twpayne/go-kml/v2"

	"github.com/cargoplan/facility-service/internal/dataset"
	"github.com/cargoplan/facility-service/internal/solver"
)

const (
	supplierIcon  = "http://maps.google.com/mapfiles/kml/paddle/red-circle.png"
	customerIcon  = "http://maps.google.com/mapfiles/kml/paddle/blu-circle.png"
	warehouseIcon = "http://maps.google.com/mapfiles/kml/paddle/grn-stars.png"
	progressIcon  = "http://maps.google.com/mapfiles/kml/shapes/placemark_circle.png"
)

// WriteKML renders suppliers, customers, the optimal facility, and the
// cost trajectory as a KML document.
func WriteKML(w io.Writer, ds *dataset.Dataset, res *solver.Result) error {
	doc := kml.Document(
		kml.Name(fmt.Sprintf("Facility placement: %s", ds.Name)),
		kml.SharedStyle("supplier", kml.IconStyle(kml.Icon(kml.Href(supplierIcon)))),
		kml.SharedStyle("customer", kml.IconStyle(kml.Icon(kml.Href(customerIcon)))),
		kml.SharedStyle("warehouse", kml.IconStyle(kml.Icon(kml.Href(warehouseIcon)))),
		kml.SharedStyle("progress", kml.IconStyle(kml.Icon(kml.Href(progressIcon)))),
	)

	for _, s := range ds.Suppliers {
		doc.Add(nodePlacemark("Supplier "+s.ID, "#supplier", s.Location))
	}
	for _, c := range ds.Customers {
		doc.Add(nodePlacemark("Customer "+c.ID, "#customer", c.Location))
	}

	doc.Add(kml.Placemark(
		kml.Name("Optimal Warehouse"),
		kml.Description(fmt.Sprintf("Lat: %.4f<br>Lon: %.4f<br>Total cost: %.2f", res.Location.Lat, res.Location.Lon, res.Cost)),
		kml.StyleURL("#warehouse"),
		point(res.Location),
	))

	// Trajectory markers fan out next to the optimum, one per accepted
	// iteration, so the cost descent is inspectable on the map.
	progress := kml.Folder(kml.Name("Optimization Progress"))
	for i, p := range res.Trajectory {
		marker := solver.GeoPoint{
			Lat: res.Location.Lat + 0.1,
			Lon: res.Location.Lon + 0.1 + 0.01*float64(i),
		}
		progress.Add(kml.Placemark(
			kml.Name(fmt.Sprintf("Iteration %d", p.Iteration)),
			kml.Description(fmt.Sprintf("Cost: %.2f", p.Cost)),
			kml.StyleURL("#progress"),
			point(marker),
		))
	}
	doc.Add(progress)

	return kml.KML(doc).WriteIndent(w, "", "  ")
}

func nodePlacemark(name, styleURL string, loc solver.GeoPoint) kml.Element {
	return kml.Placemark(
		kml.Name(name),
		kml.StyleURL(styleURL),
		point(loc),
	)
}

func point(loc solver.GeoPoint) kml.Element {
	return kml.Point(kml.Coordinates(kml.Coordinate{Lon: loc.Lon, Lat: loc.Lat}))
}

package services

import (
	"bytes"
	"fmt"

	kml "github.com/twpayne/go-kml/v2"

	"github.com/roadtripbot/server/internal/lib/routing"
)

// MapKML renders a planned route as a KML document: the full route as a
// LineString plus one placemark per sampled stop group. The result can be
// opened in any map viewer.
func (s *PlannerService) MapKML(name string, route routing.Route, stops []routing.StopGroup) ([]byte, error) {
	coords := make([]kml.Coordinate, len(route.Points))
	for i, p := range route.Points {
		coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}

	children := []kml.Element{
		kml.Name(name),
		kml.Placemark(
			kml.Name("Route"),
			kml.Description(fmt.Sprintf("%.0f km", route.DistanceKm)),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coords...),
			),
		),
	}

	for _, stop := range stops {
		children = append(children, kml.Placemark(
			kml.Name(fmt.Sprintf("Stop at %.0f km", stop.KmFromStart)),
			kml.Description(describeStop(stop)),
			kml.Point(
				kml.Coordinates(kml.Coordinate{Lon: stop.At.Longitude, Lat: stop.At.Latitude}),
			),
		))
	}

	doc := kml.KML(kml.Document(children...))

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render KML: %w", err)
	}
	return buf.Bytes(), nil
}

// describeStop lists the places found around one stop
func describeStop(stop routing.StopGroup) string {
	if len(stop.Places) == 0 {
		return "No places found nearby"
	}
	var buf bytes.Buffer
	for i, place := range stop.Places {
		if i > 0 {
			buf.WriteString("; ")
		}
		fmt.Fprintf(&buf, "%s (%.0f m)", place.Name, place.DistanceMeters)
	}
	return buf.String()
}

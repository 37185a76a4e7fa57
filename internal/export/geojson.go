package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/uavfleet/area2waypoint/internal/geo"
	"github.com/uavfleet/area2waypoint/internal/model"
)

// GeoJSONWriter dumps routes and shot points as a FeatureCollection for
// inspection in GIS tooling. Route paths become LineStrings, shots become
// Points carrying the full resolved pose as properties.
type GeoJSONWriter struct {
	Path string
}

func (w *GeoJSONWriter) Write(m *model.Mission, routeShots []model.RouteShots) error {
	collection := geom.GeoJSONFeatureCollection{}

	for _, rs := range routeShots {
		line, err := geo.RouteLineString(rs.Route.Points)
		switch {
		case err == nil:
			collection = append(collection, geom.GeoJSONFeature{
				Geometry: line.AsGeometry(),
				Properties: map[string]any{
					"kind":        "route",
					"waylineID":   rs.Route.ID,
					"cruiseSpeed": rs.Route.CruiseSpeed,
				},
			})
		case errors.Is(err, geo.ErrDegenerateLine):
			// single-point routes have no path geometry, shots still emitted
		default:
			return fmt.Errorf("building route geometry: %w", err)
		}

		for i, shot := range rs.Shots {
			point, err := geo.ShotPoint(shot)
			if err != nil {
				return fmt.Errorf("building shot geometry: %w", err)
			}
			collection = append(collection, geom.GeoJSONFeature{
				Geometry: point.AsGeometry(),
				Properties: map[string]any{
					"kind":        "shot",
					"waylineID":   rs.Route.ID,
					"index":       i,
					"heading":     shot.Heading,
					"gimbalPitch": shot.GimbalPitch,
					"gimbalYaw":   shot.GimbalYaw,
				},
			})
		}
	}

	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling feature collection: %w", err)
	}
	if err := os.WriteFile(w.Path, data, 0644); err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}
	return nil
}

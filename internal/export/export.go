// Package export writes computed missions out in the supported formats.
// Writers are selected by format name through a factory, so the conversion
// pipeline stays independent of any particular output encoding.
package export

import (
	"fmt"

	"github.com/uavfleet/area2waypoint/internal/model"
	"github.com/uavfleet/area2waypoint/internal/wpml"
)

// Writer emits a mission and its computed shot sequences to some
// destination.
type Writer interface {
	Write(m *model.Mission, routeShots []model.RouteShots) error
}

// Config selects and parameterizes a writer.
type Config struct {
	// Format is one of "kmz", "geojson" or "kml".
	Format string

	// Path is the output file. KMZ split mode derives one path per route
	// from it.
	Path string

	// Options apply to the kmz format only.
	Options wpml.Options

	// SplitRoutes writes one archive per route instead of a combined one.
	SplitRoutes bool
}

// New creates the writer for the configured format.
func New(cfg Config) (Writer, error) {
	switch cfg.Format {
	case "kmz":
		return &KMZWriter{Path: cfg.Path, Options: cfg.Options, SplitRoutes: cfg.SplitRoutes}, nil
	case "geojson":
		return &GeoJSONWriter{Path: cfg.Path}, nil
	case "kml":
		return &PreviewWriter{Path: cfg.Path}, nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", cfg.Format)
	}
}

// Package geo provides the geodesic math used by the resampler and the
// geometry helpers used by the export writers.
package geo

import (
	"errors"
	"fmt"

	"github.com/golang/geo/s2"
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/uavfleet/area2waypoint/internal/model"
)

// EarthRadiusMeters is the spherical earth radius used for all ground
// distances. The reference output was produced with this radius; do not
// swap in the WGS84 ellipsoid value.
const EarthRadiusMeters = 6371000.0

// ErrDegenerateLine is returned when a line string is requested for fewer
// than 2 points.
var ErrDegenerateLine = errors.New("line requires at least 2 points")

// Distance returns the great-circle surface distance in meters between two
// WGS84 points given in degrees. Coincident points yield 0; antipodal
// points are fine. The chord-angle formulation is numerically equivalent
// to the haversine formula on the same sphere.
func Distance(lon1, lat1, lon2, lat2 float64) float64 {
	p1 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat1, lon1))
	p2 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat2, lon2))
	angle := s2.ChordAngleBetweenPoints(p1, p2).Angle()
	return angle.Radians() * EarthRadiusMeters
}

// PathLength returns the total geodesic length in meters of the polyline
// through points, in order. Fewer than 2 points have length 0.
func PathLength(points []model.PathPoint) float64 {
	var total float64
	for i := 0; i+1 < len(points); i++ {
		total += Distance(points[i].Lon, points[i].Lat, points[i+1].Lon, points[i+1].Lat)
	}
	return total
}

// RouteLineString builds a 2D line string (lon, lat order) from a route's
// points for GeoJSON emission.
func RouteLineString(points []model.PathPoint) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, ErrDegenerateLine
	}
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.Lon, p.Lat)
	}
	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("building route line string: %w", err)
	}
	return ls, nil
}

// ShotPoint builds a 3D point geometry (lon, lat, height) from a shot.
func ShotPoint(s model.ShotPoint) (geom.Point, error) {
	point, err := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: s.Lon, Y: s.Lat},
		Z:    s.ExecuteHeight,
		Type: geom.DimXYZ,
	})
	if err != nil {
		return geom.Point{}, fmt.Errorf("building shot point: %w", err)
	}
	return point, nil
}

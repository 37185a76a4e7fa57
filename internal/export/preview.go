package export

import (
	"fmt"
	"os"

	kml "github.com/twpayne/go-kml"

	"github.com/uavfleet/area2waypoint/internal/model"
)

// PreviewWriter emits a plain KML document of the computed shot points and
// route tracks, viewable in Google Earth without WPML support.
type PreviewWriter struct {
	Path string
}

func (w *PreviewWriter) Write(m *model.Mission, routeShots []model.RouteShots) error {
	var children []kml.Element

	for _, rs := range routeShots {
		folder := kml.Folder(kml.Name(routeLabel(rs.Route)))

		if len(rs.Route.Points) >= 2 {
			track := make([]kml.Coordinate, 0, len(rs.Route.Points))
			for _, p := range rs.Route.Points {
				track = append(track, kml.Coordinate{Lon: p.Lon, Lat: p.Lat, Alt: p.ExecuteHeight})
			}
			folder = folder.Add(kml.Placemark(
				kml.Name("path"),
				kml.LineString(
					kml.Tessellate(true),
					kml.Coordinates(track...),
				),
			))
		}

		for i, shot := range rs.Shots {
			folder = folder.Add(kml.Placemark(
				kml.Name(fmt.Sprintf("shot %d", i)),
				kml.Description(fmt.Sprintf(
					"heading %.1f deg, gimbal pitch %.1f deg, gimbal yaw %.1f deg",
					shot.Heading, shot.GimbalPitch, shot.GimbalYaw)),
				kml.Point(
					kml.Coordinates(kml.Coordinate{Lon: shot.Lon, Lat: shot.Lat, Alt: shot.ExecuteHeight}),
				),
			))
		}

		children = append(children, folder)
	}

	doc := kml.KML(kml.Document(children...))

	out, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("creating preview file: %w", err)
	}
	defer out.Close()
	if err := doc.WriteIndent(out, "", "  "); err != nil {
		return fmt.Errorf("writing preview kml: %w", err)
	}
	return out.Close()
}

func routeLabel(r model.Route) string {
	if r.ID == 0 {
		return "ortho"
	}
	return fmt.Sprintf("oblique%d", r.ID)
}

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/uavfleet/area2waypoint/internal/kmz"
	"github.com/uavfleet/area2waypoint/internal/model"
	"github.com/uavfleet/area2waypoint/internal/wpml"
)

// KMZWriter emits the waypoint mission archive: wpmz/template.kml plus
// wpmz/waylines.wpml. In split mode each route gets its own archive so
// front ends that import one route at a time can load them separately.
type KMZWriter struct {
	Path        string
	Options     wpml.Options
	SplitRoutes bool
}

func (w *KMZWriter) Write(m *model.Mission, routeShots []model.RouteShots) error {
	if w.SplitRoutes {
		for i, rs := range routeShots {
			label := "ortho"
			if rs.Route.ID != 0 {
				label = fmt.Sprintf("oblique%d", i)
			}
			path := splitPath(w.Path, label)
			if err := w.writeOne(m, []model.RouteShots{rs}, path); err != nil {
				return err
			}
		}
		return nil
	}
	return w.writeOne(m, routeShots, w.Path)
}

func (w *KMZWriter) writeOne(m *model.Mission, routeShots []model.RouteShots, path string) error {
	template, err := wpml.BuildTemplate(m, routeShots, w.Options)
	if err != nil {
		return fmt.Errorf("building template document: %w", err)
	}
	waylines, err := wpml.BuildWaylines(m, routeShots, w.Options)
	if err != nil {
		return fmt.Errorf("building waylines document: %w", err)
	}
	return kmz.Write(path, []kmz.Entry{
		{Name: kmz.TemplateEntry, Data: template},
		{Name: kmz.WaylinesEntry, Data: waylines},
	})
}

// splitPath derives the per-route output path: base without the
// "_waypoints" suffix, the route label, and the original extension.
func splitPath(path, label string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	stem = strings.TrimSuffix(stem, "_waypoints")
	return fmt.Sprintf("%s_%s%s", stem, label, ext)
}

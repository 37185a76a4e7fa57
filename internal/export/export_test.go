package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uavfleet/area2waypoint/internal/kmz"
	"github.com/uavfleet/area2waypoint/internal/model"
	"github.com/uavfleet/area2waypoint/internal/wpml"
)

func sampleMission() (*model.Mission, []model.RouteShots) {
	m := &model.Mission{
		Routes: []model.Route{
			{
				ID:          0,
				CruiseSpeed: 2,
				Points: []model.PathPoint{
					{Index: 0, Lon: -78.51, Lat: 38.03, ExecuteHeight: 20},
					{Index: 1, Lon: -78.51, Lat: 38.033, ExecuteHeight: 20},
				},
			},
			{
				ID:          1,
				CruiseSpeed: 5,
				Points: []model.PathPoint{
					{Index: 0, Lon: -78.52, Lat: 38.03, ExecuteHeight: 35},
				},
			},
		},
		Config:            map[string]string{},
		DroneInfo:         map[string]string{},
		PayloadInfo:       map[string]string{},
		ExecuteHeightMode: "relativeToStartPoint",
	}
	rs := []model.RouteShots{
		{
			Route: m.Routes[0],
			Shots: []model.ShotPoint{
				{Lon: -78.51, Lat: 38.03, ExecuteHeight: 20, GimbalPitch: -90},
				{Lon: -78.51, Lat: 38.031, ExecuteHeight: 20, GimbalPitch: -90},
			},
		},
		{
			Route: m.Routes[1],
			Shots: []model.ShotPoint{
				{Lon: -78.52, Lat: 38.03, ExecuteHeight: 35, GimbalPitch: -45},
			},
		},
	}
	return m, rs
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Config{Format: "shapefile"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}

func TestKMZWriter_Combined(t *testing.T) {
	m, rs := sampleMission()
	path := filepath.Join(t.TempDir(), "out.kmz")

	w, err := New(Config{Format: "kmz", Path: path, Options: wpml.DefaultOptions()})
	require.NoError(t, err)
	require.NoError(t, w.Write(m, rs))

	template, err := kmz.ReadEntry(path, kmz.TemplateEntry)
	require.NoError(t, err)
	assert.Contains(t, string(template), "templateType")

	waylines, err := kmz.ReadEntry(path, kmz.WaylinesEntry)
	require.NoError(t, err)
	assert.Contains(t, string(waylines), "orientedShoot")
}

func TestKMZWriter_SplitRoutes(t *testing.T) {
	m, rs := sampleMission()
	dir := t.TempDir()
	path := filepath.Join(dir, "survey_waypoints.kmz")

	w := &KMZWriter{Path: path, Options: wpml.DefaultOptions(), SplitRoutes: true}
	require.NoError(t, w.Write(m, rs))

	ortho := filepath.Join(dir, "survey_ortho.kmz")
	oblique := filepath.Join(dir, "survey_oblique1.kmz")
	_, err := os.Stat(ortho)
	require.NoError(t, err)
	_, err = os.Stat(oblique)
	require.NoError(t, err)

	// each split archive holds exactly one route
	data, err := kmz.ReadEntry(oblique, kmz.WaylinesEntry)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<wpml:waylineId>1</wpml:waylineId>")
	assert.NotContains(t, string(data), "<wpml:waylineId>0</wpml:waylineId>")
}

func TestGeoJSONWriter(t *testing.T) {
	m, rs := sampleMission()
	path := filepath.Join(t.TempDir(), "out.geojson")

	w := &GeoJSONWriter{Path: path}
	require.NoError(t, w.Write(m, rs))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var collection struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &collection))
	assert.Equal(t, "FeatureCollection", collection.Type)

	// route 0 has a 2-point path (1 LineString) and 2 shots; route 1 is a
	// single point, path geometry omitted, 1 shot
	var lines, points int
	for _, f := range collection.Features {
		switch f.Geometry.Type {
		case "LineString":
			lines++
		case "Point":
			points++
		}
	}
	assert.Equal(t, 1, lines)
	assert.Equal(t, 3, points)
}

func TestPreviewWriter(t *testing.T) {
	m, rs := sampleMission()
	path := filepath.Join(t.TempDir(), "preview.kml")

	w := &PreviewWriter{Path: path}
	require.NoError(t, w.Write(m, rs))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "<kml")
	assert.Contains(t, text, "ortho")
	assert.Contains(t, text, "oblique1")
	assert.Contains(t, text, "shot 0")
	assert.Contains(t, text, "LineString")
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, "a/b_ortho.kmz", splitPath("a/b_waypoints.kmz", "ortho"))
	assert.Equal(t, "plan_oblique1.kmz", splitPath("plan.kmz", "oblique1"))
}

// Package convert wires the pipeline together: read the area mission
// archive, compute or load shot points, and emit the waypoint mission
// through the configured writers.
package convert

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/uavfleet/area2waypoint/internal/export"
	"github.com/uavfleet/area2waypoint/internal/kmz"
	"github.com/uavfleet/area2waypoint/internal/model"
	"github.com/uavfleet/area2waypoint/internal/override"
	"github.com/uavfleet/area2waypoint/internal/resample"
	"github.com/uavfleet/area2waypoint/internal/wpml"
)

// ErrNoShots is returned when no route yields any shot point, so there is
// nothing to emit.
var ErrNoShots = errors.New("no shot points computed")

// Job describes one conversion.
type Job struct {
	// InputPath is the area mission archive.
	InputPath string

	// OutputPath is the waypoint mission archive to write. Empty derives
	// it from InputPath (see DefaultOutputPath).
	OutputPath string

	// OverridePath optionally names a CSV whose records replace the
	// primary route's computed shots.
	OverridePath string

	// GeoJSONPath and PreviewPath optionally name additional inspection
	// outputs.
	GeoJSONPath string
	PreviewPath string

	// SplitRoutes writes one archive per route.
	SplitRoutes bool

	Options wpml.Options
}

// Run executes the conversion.
func Run(job Job, logger *slog.Logger) error {
	outputPath := job.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath(job.InputPath)
	}

	data, err := kmz.ReadEntry(job.InputPath, kmz.WaylinesEntry)
	if err != nil {
		return fmt.Errorf("reading area mission: %w", err)
	}

	mission, err := wpml.ParseWaylines(data)
	if err != nil {
		return fmt.Errorf("parsing area mission: %w", err)
	}
	logger.Info("parsed area mission",
		"input", job.InputPath, "routes", len(mission.Routes))

	routeShots, err := computeShots(mission, job.OverridePath, logger)
	if err != nil {
		return err
	}
	if len(routeShots) == 0 {
		return ErrNoShots
	}

	writers := []export.Config{{
		Format:      "kmz",
		Path:        outputPath,
		Options:     job.Options,
		SplitRoutes: job.SplitRoutes,
	}}
	if job.GeoJSONPath != "" {
		writers = append(writers, export.Config{Format: "geojson", Path: job.GeoJSONPath})
	}
	if job.PreviewPath != "" {
		writers = append(writers, export.Config{Format: "kml", Path: job.PreviewPath})
	}

	for _, cfg := range writers {
		w, err := export.New(cfg)
		if err != nil {
			return err
		}
		if err := w.Write(mission, routeShots); err != nil {
			return err
		}
		logger.Info("wrote output", "format", cfg.Format, "path", cfg.Path)
	}

	return nil
}

// computeShots resolves the shot sequences: a non-empty override source
// wins outright for the primary route, otherwise every route is resampled.
// A named override path that cannot be read is an error, not a silent
// fallback: the caller asked for those shots.
func computeShots(mission *model.Mission, overridePath string, logger *slog.Logger) ([]model.RouteShots, error) {
	if overridePath != "" {
		shots, err := override.LoadFile(overridePath, override.DefaultSchema())
		if err != nil {
			return nil, fmt.Errorf("loading override shots: %w", err)
		}
		if len(shots) > 0 {
			logger.Info("override source replaces computed shots",
				"path", overridePath, "shots", len(shots))
			return override.Apply(mission, shots), nil
		}
		logger.Warn("override source is empty, computing shots instead", "path", overridePath)
	}
	return resample.Mission(mission, logger), nil
}

// DefaultOutputPath derives the output archive path from the input path:
// trailing "_area" or "_mapping" name suffixes are replaced by
// "_waypoints".
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	for _, suffix := range []string{"_area", "_mapping"} {
		if strings.HasSuffix(stem, suffix) {
			stem = strings.TrimSuffix(stem, suffix)
			break
		}
	}
	return filepath.Join(filepath.Dir(input), stem+"_waypoints.kmz")
}

// InputExists reports whether the job's input archive is present, so the
// CLI can fail before any parsing starts.
func InputExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("input archive: %w", err)
	}
	return nil
}

// Command area2waypoint converts a survey-style area mission archive into
// a waypoint mission archive in which every camera trigger location is an
// explicit, editable waypoint.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/uavfleet/area2waypoint/internal/config"
	"github.com/uavfleet/area2waypoint/internal/convert"
	"github.com/uavfleet/area2waypoint/internal/logging"
	"github.com/uavfleet/area2waypoint/internal/wpml"
)

func main() {
	var (
		configDir   string
		output      string
		metadataCSV string
		lens        string
		focalLength float64
		splitRoutes bool
		geojson     string
		preview     string
		logLevel    string
	)

	flag.StringVar(&configDir, "config", "", "Directory containing area2waypoint.cfg.json")
	flag.StringVar(&output, "output", "", "Output waypoint KMZ file (default: <input>_waypoints.kmz)")
	flag.StringVar(&output, "o", "", "Shorthand for -output")
	flag.StringVar(&metadataCSV, "metadata-csv", "", "Optional CSV whose records replace computed shot points (columns: lat, lon, rel_alt, gimbal_pitch, gimbal_yaw, flight_yaw)")
	flag.StringVar(&lens, "lens", "", "Payload lens list for capture actions")
	flag.Float64Var(&focalLength, "focal-length", 0, "Focal length for capture actions")
	flag.BoolVar(&splitRoutes, "split-routes", false, "Write one KMZ per route (ortho, oblique1, ...) for separate import")
	flag.StringVar(&geojson, "geojson", "", "Also write routes and shot points as GeoJSON to this path")
	flag.StringVar(&preview, "preview", "", "Also write a plain KML preview of shot points to this path")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// flags win over config file values
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	if lens == "" {
		lens = cfg.Lens
	}
	if focalLength == 0 {
		focalLength = cfg.FocalLength
	}

	var logFile *os.File
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		path := logging.LogFilePath(cfg.LogsDir, "area2waypoint", time.Now())
		if logFile, err = os.Create(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer logFile.Close()
	}

	// a nil *os.File must not become a non-nil io.Writer
	var fileWriter io.Writer
	if logFile != nil {
		fileWriter = logFile
	}
	logger := logging.Setup(fileWriter, logLevel)

	if err := convert.InputExists(input); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	job := convert.Job{
		InputPath:    input,
		OutputPath:   output,
		OverridePath: metadataCSV,
		GeoJSONPath:  geojson,
		PreviewPath:  preview,
		SplitRoutes:  splitRoutes,
		Options: wpml.Options{
			Lens:        lens,
			FocalLength: focalLength,
		},
	}

	if err := convert.Run(job, logger); err != nil {
		logger.Error(err.Error(), "input", input)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.kmz>\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Converts an area mission KMZ into a waypoint mission KMZ.")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}

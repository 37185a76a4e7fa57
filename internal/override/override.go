// Package override loads an external tabular source of shot points. When
// present, its records replace the primary route's computed shots outright;
// no blending with computed values occurs.
package override

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/uavfleet/area2waypoint/internal/model"
)

// Field identifies one shot point attribute a CSV column can map to.
type Field int

const (
	FieldLat Field = iota
	FieldLon
	FieldAlt
	FieldGimbalPitch
	FieldGimbalYaw
	FieldHeading
	fieldCount
)

// spec holds the recognized column names and the value used when none of
// them is present. Aliases are matched case-insensitively against trimmed
// header names, first alias wins.
type spec struct {
	aliases []string
	def     float64
}

// Schema maps CSV columns onto shot point fields. Alias resolution happens
// once against the header row, not per record.
type Schema struct {
	fields [fieldCount]spec
}

// DefaultSchema returns the recognized aliases and defaults:
//
//	lat          -> latitude, default 0
//	lon          -> longitude, default 0
//	rel_alt | alt | height -> execute height, default 0
//	gimbal_pitch -> gimbal pitch, default -90
//	gimbal_yaw   -> gimbal yaw, default 0
//	flight_yaw | heading -> aircraft heading, default 0
func DefaultSchema() Schema {
	var s Schema
	s.fields[FieldLat] = spec{aliases: []string{"lat"}}
	s.fields[FieldLon] = spec{aliases: []string{"lon"}}
	s.fields[FieldAlt] = spec{aliases: []string{"rel_alt", "alt", "height"}}
	s.fields[FieldGimbalPitch] = spec{aliases: []string{"gimbal_pitch"}, def: -90}
	s.fields[FieldGimbalYaw] = spec{aliases: []string{"gimbal_yaw"}}
	s.fields[FieldHeading] = spec{aliases: []string{"flight_yaw", "heading"}}
	return s
}

// columns is the resolved header mapping: per field, the CSV column index
// or -1 when the column is absent and the default applies.
type columns [fieldCount]int

func (s Schema) resolve(header []string) columns {
	var cols columns
	for i := range cols {
		cols[i] = -1
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for f, sp := range s.fields {
		for _, alias := range sp.aliases {
			if i, ok := index[alias]; ok {
				cols[f] = i
				break
			}
		}
	}
	return cols
}

// LoadFile reads shot point records from the CSV file at path.
func LoadFile(path string, schema Schema) ([]model.ShotPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening override file: %w", err)
	}
	defer f.Close()
	return Load(f, schema)
}

// Load reads shot point records in order from CSV data. The first row is
// the header; missing or empty cells take the schema's field default.
func Load(r io.Reader, schema Schema) ([]model.ShotPoint, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading override header: %w", err)
	}
	cols := schema.resolve(header)

	var shots []model.ShotPoint
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading override record: %w", err)
		}

		var values [fieldCount]float64
		for f, sp := range schema.fields {
			values[f], err = cellValue(record, cols[f], sp.def)
			if err != nil {
				return nil, fmt.Errorf("override line %d: %w", line, err)
			}
		}

		shots = append(shots, model.ShotPoint{
			Lat:           values[FieldLat],
			Lon:           values[FieldLon],
			ExecuteHeight: values[FieldAlt],
			GimbalPitch:   values[FieldGimbalPitch],
			GimbalYaw:     values[FieldGimbalYaw],
			Heading:       values[FieldHeading],
		})
	}

	return shots, nil
}

func cellValue(record []string, col int, def float64) (float64, error) {
	if col < 0 || col >= len(record) {
		return def, nil
	}
	raw := strings.TrimSpace(record[col])
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("bad numeric value %q: %w", raw, err)
	}
	return v, nil
}

// Apply replaces the computed shot sequences with the override records:
// the primary route carries all override shots, other routes are dropped,
// matching the contract that an external source of truth wins outright.
// With no override shots or no routes, Apply returns nil.
func Apply(m *model.Mission, shots []model.ShotPoint) []model.RouteShots {
	if len(shots) == 0 {
		return nil
	}
	primary, ok := m.Primary()
	if !ok {
		return nil
	}
	return []model.RouteShots{{Route: primary, Shots: shots}}
}

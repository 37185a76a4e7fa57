// Package model defines the in-memory flight plan types shared by the
// ingest, resampling and emission layers.
package model

// TriggerMultipleDistance identifies the fixed-distance capture trigger:
// one photo every SpacingMeters of travel over the policy's index range.
const TriggerMultipleDistance = "multipleDistance"

// PathPoint is a single point along a route's flight path. Coordinates are
// WGS84 degrees; ExecuteHeight is meters relative to the route's reference.
type PathPoint struct {
	// Index is the point's position in the source route. Points are
	// processed in ascending Index order; indexes need not be contiguous.
	Index         int
	Lon           float64
	Lat           float64
	ExecuteHeight float64
	HeadingAngle  float64
	Speed         float64

	// GimbalPitch/GimbalYaw of zero mean "unset" and are substituted with
	// policy defaults during resampling. A genuine zero-degree pose is
	// indistinguishable from unset; the source schema shares this ambiguity.
	GimbalPitch float64
	GimbalYaw   float64
}

// TriggerPolicy is a camera action group bound to the index range
// [StartIndex, EndIndex] of a route.
type TriggerPolicy struct {
	GroupID    int
	StartIndex int
	EndIndex   int

	// Mode describes execution semantics (e.g. "sequence"). Informational.
	Mode string

	// TriggerType identifies what fires the action group. Only
	// TriggerMultipleDistance policies participate in resampling.
	TriggerType string

	// SpacingMeters is the fixed-distance trigger parameter. Zero means the
	// source declared none; a policy is only eligible when it is > 0.
	SpacingMeters float64

	// HasCaptureAction is true when the group actually takes a photo,
	// rather than only adjusting pose.
	HasCaptureAction bool

	// DefaultPitch/DefaultYaw are applied to a shot when both interpolation
	// endpoints carry a zero (unset) value for the respective field.
	DefaultPitch float64
	DefaultYaw   float64

	PayloadLensIndex string
}

// Route is one independent flight path: ordered points plus the trigger
// policies declared over them. The source schema calls this a wayline.
type Route struct {
	// ID is the source waylineId. The route with ID 0 is the primary
	// ("ortho") route; higher IDs are auxiliary ("oblique") routes.
	ID         int
	TemplateID int

	// Points are sorted by Index ascending.
	Points   []PathPoint
	Policies []TriggerPolicy

	// CruiseSpeed is the route's auto flight speed in m/s.
	CruiseSpeed float64
}

// Mission is an ordered set of routes plus the pass-through configuration
// blocks carried from the source document into the emitted one.
type Mission struct {
	// Routes in declaration order, primary route first.
	Routes []Route

	// Config, DroneInfo and PayloadInfo hold the scalar children of the
	// source missionConfig block, keyed by local tag name.
	Config      map[string]string
	DroneInfo   map[string]string
	PayloadInfo map[string]string

	ExecuteHeightMode string
}

// Primary returns the mission's first route, or false when there is none.
func (m *Mission) Primary() (Route, bool) {
	if len(m.Routes) == 0 {
		return Route{}, false
	}
	return m.Routes[0], true
}

// ShotPoint is one fully resolved capture location and pose. All fields are
// final; nothing downstream interpolates or substitutes further.
type ShotPoint struct {
	Lon           float64
	Lat           float64
	ExecuteHeight float64
	Heading       float64
	GimbalPitch   float64
	GimbalYaw     float64
}

// RouteShots pairs a route with its computed shot sequence. Routes that
// yield no shots are never represented as an empty RouteShots.
type RouteShots struct {
	Route Route
	Shots []ShotPoint
}

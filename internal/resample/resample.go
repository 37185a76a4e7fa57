// Package resample converts a route's path and trigger policies into the
// discrete shot sequence a waypoint mission needs: one explicit waypoint
// per camera trigger location.
package resample

import (
	"log/slog"

	"github.com/uavfleet/area2waypoint/internal/geo"
	"github.com/uavfleet/area2waypoint/internal/model"
)

// DefaultNadirPitch is the gimbal pitch substituted by the fallback
// generator when a point declares no pitch of its own.
const DefaultNadirPitch = -90.0

// Interpolate linearly blends every continuous field of two path points at
// parameter t in [0, 1]. t=0 returns p0's values, t=1 returns p1's. Each
// scalar is blended independently; no spherical interpolation is applied,
// which is only sound for points close together, as guaranteed by the
// resampler's spacing policy.
func Interpolate(p0, p1 model.PathPoint, t float64) model.ShotPoint {
	return model.ShotPoint{
		Lon:           lerp(p0.Lon, p1.Lon, t),
		Lat:           lerp(p0.Lat, p1.Lat, t),
		ExecuteHeight: lerp(p0.ExecuteHeight, p1.ExecuteHeight, t),
		Heading:       lerp(p0.HeadingAngle, p1.HeadingAngle, t),
		GimbalPitch:   lerp(p0.GimbalPitch, p1.GimbalPitch, t),
		GimbalYaw:     lerp(p0.GimbalYaw, p1.GimbalYaw, t),
	}
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// ByDistance walks the points whose index lies in the policy's
// [StartIndex, EndIndex] range and emits one interpolated shot every
// SpacingMeters of accumulated geodesic arc length, starting at the very
// first point of the sub-sequence. A segment longer than the spacing emits
// several shots; a segment shorter than the remaining threshold emits none.
// Fewer than 2 points in range produce no shots.
func ByDistance(points []model.PathPoint, pol model.TriggerPolicy) []model.ShotPoint {
	segment := make([]model.PathPoint, 0, len(points))
	for _, p := range points {
		if p.Index >= pol.StartIndex && p.Index <= pol.EndIndex {
			segment = append(segment, p)
		}
	}
	if len(segment) < 2 {
		return nil
	}

	var shots []model.ShotPoint
	accumulated := 0.0
	nextShotAt := 0.0

	for i := 0; i+1 < len(segment); i++ {
		p0, p1 := segment[i], segment[i+1]
		segLen := geo.Distance(p0.Lon, p0.Lat, p1.Lon, p1.Lat)

		for accumulated+segLen >= nextShotAt {
			t := 1.0
			if segLen > 0 {
				t = clamp01((nextShotAt - accumulated) / segLen)
			}
			shot := Interpolate(p0, p1, t)

			// A zero pose on both endpoints means the field was never set;
			// fall back to the policy's gimbal defaults. Pitch and yaw are
			// decided independently.
			if p0.GimbalPitch == 0 && p1.GimbalPitch == 0 {
				shot.GimbalPitch = pol.DefaultPitch
			}
			if p0.GimbalYaw == 0 && p1.GimbalYaw == 0 {
				shot.GimbalYaw = pol.DefaultYaw
			}

			shots = append(shots, shot)
			nextShotAt += pol.SpacingMeters
		}

		accumulated += segLen
	}

	return shots
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Fallback emits one shot per path point, unmodified except that a zero
// gimbal pitch becomes DefaultNadirPitch. Used when a route declares no
// eligible fixed-distance policy.
func Fallback(points []model.PathPoint) []model.ShotPoint {
	shots := make([]model.ShotPoint, 0, len(points))
	for _, p := range points {
		pitch := p.GimbalPitch
		if pitch == 0 {
			pitch = DefaultNadirPitch
		}
		shots = append(shots, model.ShotPoint{
			Lon:           p.Lon,
			Lat:           p.Lat,
			ExecuteHeight: p.ExecuteHeight,
			Heading:       p.HeadingAngle,
			GimbalPitch:   pitch,
			GimbalYaw:     p.GimbalYaw,
		})
	}
	return shots
}

// Route computes the shot sequence for a single route: fixed-distance
// resampling under the selected policy, or the per-point fallback when no
// policy is eligible.
func Route(r model.Route) []model.ShotPoint {
	if pol, ok := SelectDistancePolicy(r.Policies); ok {
		return ByDistance(r.Points, pol)
	}
	return Fallback(r.Points)
}

// Mission computes shots for every route. Routes are independent, so they
// are computed concurrently; declaration order is preserved in the result
// and routes yielding zero shots are omitted.
func Mission(m *model.Mission, logger *slog.Logger) []model.RouteShots {
	results := make([][]model.ShotPoint, len(m.Routes))

	done := make(chan int)
	for i := range m.Routes {
		go func(i int) {
			results[i] = Route(m.Routes[i])
			done <- i
		}(i)
	}
	for range m.Routes {
		<-done
	}

	out := make([]model.RouteShots, 0, len(m.Routes))
	for i, shots := range results {
		r := m.Routes[i]
		if len(shots) == 0 {
			logger.Warn("route produced no shot points, omitting",
				"waylineID", r.ID, "points", len(r.Points))
			continue
		}
		logger.Info("computed shot points",
			"waylineID", r.ID, "points", len(r.Points), "shots", len(shots))
		out = append(out, model.RouteShots{Route: r, Shots: shots})
	}
	return out
}

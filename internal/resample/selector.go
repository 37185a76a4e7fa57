package resample

import "github.com/uavfleet/area2waypoint/internal/model"

// SelectDistancePolicy picks the fixed-distance trigger policy to honor for
// a route. Eligible policies are multipleDistance triggers with a positive
// spacing that actually fire a capture. Among those, the one covering the
// widest index range wins; when several tie on range any of them is an
// acceptable choice, and this implementation keeps the first seen. The
// second return is false when no policy is eligible, which is not an error:
// the caller falls back to per-point shots.
func SelectDistancePolicy(policies []model.TriggerPolicy) (model.TriggerPolicy, bool) {
	var best model.TriggerPolicy
	found := false
	for _, pol := range policies {
		if pol.TriggerType != model.TriggerMultipleDistance {
			continue
		}
		if pol.SpacingMeters <= 0 || !pol.HasCaptureAction {
			continue
		}
		if !found || pol.EndIndex-pol.StartIndex > best.EndIndex-best.StartIndex {
			best = pol
			found = true
		}
	}
	return best, found
}

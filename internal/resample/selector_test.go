package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uavfleet/area2waypoint/internal/model"
)

func distancePolicy(start, end int, spacing float64) model.TriggerPolicy {
	return model.TriggerPolicy{
		StartIndex:       start,
		EndIndex:         end,
		TriggerType:      model.TriggerMultipleDistance,
		SpacingMeters:    spacing,
		HasCaptureAction: true,
	}
}

func TestSelectDistancePolicy_PicksWidestRange(t *testing.T) {
	policies := []model.TriggerPolicy{
		distancePolicy(0, 3, 10),
		distancePolicy(0, 7, 15),
		distancePolicy(2, 4, 5),
	}

	pol, ok := SelectDistancePolicy(policies)
	require.True(t, ok)
	assert.Equal(t, 0, pol.StartIndex)
	assert.Equal(t, 7, pol.EndIndex)
	assert.Equal(t, 15.0, pol.SpacingMeters)
}

func TestSelectDistancePolicy_TieKeepsAMaximalCandidate(t *testing.T) {
	policies := []model.TriggerPolicy{
		distancePolicy(0, 3, 10),
		distancePolicy(4, 7, 20),
	}

	pol, ok := SelectDistancePolicy(policies)
	require.True(t, ok)
	// any maximal-range candidate is acceptable; both span 3 indexes
	assert.Equal(t, 3, pol.EndIndex-pol.StartIndex)
}

func TestSelectDistancePolicy_FiltersIneligible(t *testing.T) {
	tests := []struct {
		name     string
		policies []model.TriggerPolicy
	}{
		{"empty", nil},
		{
			"wrong trigger type",
			[]model.TriggerPolicy{{
				TriggerType:      "reachPoint",
				SpacingMeters:    10,
				HasCaptureAction: true,
			}},
		},
		{
			"zero spacing",
			[]model.TriggerPolicy{{
				TriggerType:      model.TriggerMultipleDistance,
				SpacingMeters:    0,
				HasCaptureAction: true,
			}},
		},
		{
			"negative spacing",
			[]model.TriggerPolicy{{
				TriggerType:      model.TriggerMultipleDistance,
				SpacingMeters:    -5,
				HasCaptureAction: true,
			}},
		},
		{
			"no capture action",
			[]model.TriggerPolicy{{
				TriggerType:   model.TriggerMultipleDistance,
				SpacingMeters: 10,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SelectDistancePolicy(tt.policies)
			assert.False(t, ok)
		})
	}
}

package track

import (
	"github.com/zeu5/carsim/geometry"
	"github.com/zeu5/carsim/vehicle"
)

type RewardConfig struct {
	Finish      float64 `json:"finish" yaml:"finish"`
	Dead        float64 `json:"dead" yaml:"dead"`
	StepPenalty float64 `json:"step_penalty" yaml:"step_penalty"`
}

func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		Finish:      1000,
		Dead:        -1000,
		StepPenalty: 1,
	}
}

// Reward of the current state. While running it is minus the distance
// between the vehicle center and the destination segment. The step penalty
// is always subtracted.
func (t *Track) Reward(stepCount int) float64 {
	var reward float64
	switch {
	case t.done && t.atDestination:
		reward = t.reward.Finish
	case t.done:
		reward = t.reward.Dead
	default:
		center := t.car.Position(vehicle.Center)
		reward = -geometry.DistanceToSegment(center, t.layout.DestinationLine())
	}
	return reward - float64(stepCount)*t.reward.StepPenalty
}

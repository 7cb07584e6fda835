package track

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/carsim/geometry"
	"github.com/zeu5/carsim/types"
	"github.com/zeu5/carsim/vehicle"
)

func TestEnvironmentStates(t *testing.T) {
	env := NewEnvironment(DefaultLayout(), vehicle.DefaultConfig())

	s := env.Reset()
	assert.Equal(t, "22.0_8.5_8.5", s.Hash())
	assert.Len(t, s.Actions(), 81)
	assert.Equal(t, "0", s.Actions()[0].Hash())
	assert.Equal(t, "80", s.Actions()[80].Hash())
	assert.InDeltaSlice(t, []float64{22, 8.485281374, 8.485281374}, s.Observation(), 1e-6)

	next, reward := env.Step(SteerAction(40), 0)
	assert.InDelta(t, 21, next.Observation()[0], 1e-9)
	assert.Less(t, reward, 0.0)
	assert.False(t, env.Done())
	assert.False(t, env.AtGoal())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("12")
	require.NoError(t, err)
	assert.Equal(t, SteerAction(12), a)

	_, err = ParseAction("left")
	assert.Error(t, err)
}

func TestScriptedEpisodeReachesGoal(t *testing.T) {
	layout := DefaultLayout()
	// destination right ahead of the start
	layout.Destination = [2]geometry.Point{geometry.NewPoint(-2, 4), geometry.NewPoint(2, 6)}
	env := NewEnvironment(layout, vehicle.DefaultConfig())

	agent := types.NewAgent(&types.AgentConfig{
		Horizon:     20,
		Policy:      types.NewScriptedPolicy(nil, "40"),
		Environment: env,
	})
	eCtx := types.NewEpisodeContext(context.Background(), 0, "straight")
	agent.RunEpisode(eCtx)

	assert.Equal(t, types.OutcomeSuccess, eCtx.Outcome)
	assert.Equal(t, 4, eCtx.Timesteps)
	_, _, _, reward, _ := eCtx.Trace.Last()
	assert.InDelta(t, 997, reward, 1e-9)
}

func TestScriptedEpisodeCrashes(t *testing.T) {
	env := NewEnvironment(DefaultLayout(), vehicle.DefaultConfig())

	agent := types.NewAgent(&types.AgentConfig{
		Horizon:     200,
		Policy:      types.NewScriptedPolicy(nil, "0"),
		Environment: env,
	})
	eCtx := types.NewEpisodeContext(context.Background(), 0, "left")
	agent.RunEpisode(eCtx)

	assert.Equal(t, types.OutcomeFailure, eCtx.Outcome)
	assert.Less(t, eCtx.Timesteps, 200)
}

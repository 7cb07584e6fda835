package track

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/zeu5/carsim/types"
	"github.com/zeu5/carsim/vehicle"
)

// SteerAction is the discrete steering action with the given index
type SteerAction int

var _ types.Action = SteerAction(0)

func (a SteerAction) Hash() string {
	return strconv.Itoa(int(a))
}

// ParseAction returns the action whose hash is s
func ParseAction(s string) (SteerAction, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid action %q", s)
	}
	return SteerAction(i), nil
}

// EnvState wraps the sensor readings for the policies.
// The hash rounds the readings to one decimal.
type EnvState struct {
	State
	actions []types.Action
}

var _ types.State = &EnvState{}

func (s *EnvState) Hash() string {
	return fmt.Sprintf("%.1f_%.1f_%.1f", s.Front, s.Right, s.Left)
}

func (s *EnvState) Actions() []types.Action {
	return s.actions
}

func (s *EnvState) Observation() []float64 {
	return s.Slice()
}

// Environment adapts a Track to the types.Environment contract
type Environment struct {
	track   *Track
	actions []types.Action
}

var _ types.GoalEnvironment = &Environment{}

func NewEnvironment(layout Layout, config vehicle.Config, opts ...Option) *Environment {
	return WrapTrack(New(layout, config, opts...))
}

func WrapTrack(t *Track) *Environment {
	actions := make([]types.Action, t.NumActions())
	for i := range actions {
		actions[i] = SteerAction(i)
	}
	return &Environment{
		track:   t,
		actions: actions,
	}
}

func (e *Environment) wrap(s State) *EnvState {
	return &EnvState{State: s, actions: e.actions}
}

func (e *Environment) Reset() types.State {
	return e.wrap(e.track.Reset())
}

// Step accepts SteerAction values, any other action keeps the current
// steering
func (e *Environment) Step(a types.Action, step int) (types.State, float64) {
	var (
		s      State
		reward float64
	)
	if sa, ok := a.(SteerAction); ok {
		s, reward = e.track.Step(int(sa), step)
	} else {
		s, reward = e.track.Advance(step)
	}
	return e.wrap(s), reward
}

func (e *Environment) Done() bool {
	return e.track.Done()
}

func (e *Environment) AtGoal() bool {
	return e.track.AtDestination()
}

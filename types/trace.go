package types

import "encoding/json"

// Trace of an episode as (state, action, nextState, reward)
type Trace struct {
	states     []State
	actions    []Action
	nextStates []State
	rewards    []float64
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]State, 0),
		actions:    make([]Action, 0),
		nextStates: make([]State, 0),
		rewards:    make([]float64, 0),
	}
}

func (t *Trace) Slice(from, to int) *Trace {
	slicedTrace := NewTrace()
	for i := from; i < to; i++ {
		slicedTrace.Append(i-from, t.states[i], t.actions[i], t.nextStates[i], t.rewards[i])
	}
	return slicedTrace
}

func (t *Trace) Append(step int, state State, action Action, nextState State, reward float64) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.nextStates = append(t.nextStates, nextState)
	t.rewards = append(t.rewards, reward)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (State, Action, State, float64, bool) {
	if i >= len(t.states) {
		return nil, nil, nil, 0, false
	}
	return t.states[i], t.actions[i], t.nextStates[i], t.rewards[i], true
}

func (t *Trace) Last() (State, Action, State, float64, bool) {
	if len(t.states) < 1 {
		return nil, nil, nil, 0, false
	}
	return t.Get(len(t.states) - 1)
}

// Return is the sum of the rewards collected along the trace
func (t *Trace) Return() float64 {
	sum := 0.0
	for _, r := range t.rewards {
		sum += r
	}
	return sum
}

type traceStep struct {
	Step      int       `json:"step"`
	State     []float64 `json:"state"`
	Action    string    `json:"action"`
	NextState []float64 `json:"next_state"`
	Reward    float64   `json:"reward"`
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	steps := make([]traceStep, t.Len())
	for i := range steps {
		steps[i] = traceStep{
			Step:      i,
			State:     t.states[i].Observation(),
			Action:    t.actions[i].Hash(),
			NextState: t.nextStates[i].Observation(),
			Reward:    t.rewards[i],
		}
	}
	return json.Marshal(steps)
}

package types

type Policy interface {
	UpdateIteration(int, *Trace)
	NextAction(int, State, []Action) (Action, bool)
	Update(int, State, Action, State, float64)
	Reset()
}

// ScriptedPolicy replays a fixed list of action hashes, one per step.
// Once the script is exhausted the fallback action is repeated, or the
// episode is stopped when there is no fallback.
type ScriptedPolicy struct {
	script   []string
	fallback string
}

var _ Policy = &ScriptedPolicy{}

func NewScriptedPolicy(script []string, fallback string) *ScriptedPolicy {
	return &ScriptedPolicy{
		script:   script,
		fallback: fallback,
	}
}

func (s *ScriptedPolicy) Reset() {}

func (s *ScriptedPolicy) UpdateIteration(_ int, _ *Trace) {}

func (s *ScriptedPolicy) NextAction(step int, _ State, actions []Action) (Action, bool) {
	next := s.fallback
	if step < len(s.script) {
		next = s.script[step]
	}
	if next == "" {
		return nil, false
	}
	for _, a := range actions {
		if a.Hash() == next {
			return a, true
		}
	}
	return nil, false
}

func (s *ScriptedPolicy) Update(_ int, _ State, _ Action, _ State, _ float64) {}

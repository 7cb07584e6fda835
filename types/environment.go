package types

// Environment is the contract between the simulation and any control policy
type Environment interface {
	// Reset called at the start of each episode
	Reset() State
	// Step applies the action, the int is the step count of the episode.
	// Returns the next state and the reward.
	Step(Action, int) (State, float64)
	// Done reports if the episode reached a terminal state
	Done() bool
}

// GoalEnvironment is implemented by environments able to tell
// successful terminal states apart from failures
type GoalEnvironment interface {
	Environment
	AtGoal() bool
}

// State of the system that policies observe
type State interface {
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
	// Actions possible from the state
	Actions() []Action
	// Raw observation vector
	Observation() []float64
}

// And Action that a policy can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}

type StateAbstractor func(State) string

func DefaultStateAbstractor() StateAbstractor {
	return func(s State) string {
		return s.Hash()
	}
}

package types

import "time"

type AgentConfig struct {
	Horizon     int
	Policy      Policy
	Environment Environment
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config      *AgentConfig
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// RunEpisode runs a single episode until the environment is done, the horizon
// is reached, the policy stops or the context is cancelled.
// The trace and outcome are stored in the episode context.
func (a *Agent) RunEpisode(eCtx *EpisodeContext) {
	start := time.Now()
	defer func() {
		eCtx.RunDuration = time.Since(start)
	}()

	state := a.environment.Reset()
	trace := eCtx.Trace
	eCtx.Outcome = OutcomeHorizon

	for i := 0; i < a.config.Horizon; i++ {
		if a.environment.Done() {
			break
		}
		if eCtx.cancelled() {
			eCtx.Outcome = OutcomeCancelled
			return
		}
		nextAction, ok := a.policy.NextAction(i, state, state.Actions())
		if !ok {
			eCtx.Outcome = OutcomeStopped
			break
		}
		nextState, reward := a.environment.Step(nextAction, i)
		a.policy.Update(i, state, nextAction, nextState, reward)

		trace.Append(i, state, nextAction, nextState, reward)
		eCtx.Timesteps += 1
		state = nextState
	}

	if a.environment.Done() {
		eCtx.Outcome = OutcomeFailure
		if g, ok := a.environment.(GoalEnvironment); ok && g.AtGoal() {
			eCtx.Outcome = OutcomeSuccess
		}
	}
	a.policy.UpdateIteration(eCtx.Episode, trace)
}

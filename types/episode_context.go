package types

import (
	"context"
	"time"
)

// Outcome is the reason an episode ended
type Outcome int

const (
	OutcomeHorizon   Outcome = iota // horizon reached without a terminal state
	OutcomeSuccess                  // terminal state at the goal
	OutcomeFailure                  // terminal state elsewhere
	OutcomeStopped                  // the policy had no action to take
	OutcomeCancelled                // the context was cancelled mid episode
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeStopped:
		return "stopped"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "horizon"
	}
}

// EpisodeContext stores the information used and produced by one episode
type EpisodeContext struct {
	Context context.Context

	Episode        int
	ExperimentName string

	Trace       *Trace
	Timesteps   int
	Outcome     Outcome
	RunDuration time.Duration
}

func NewEpisodeContext(ctx context.Context, episode int, experimentName string) *EpisodeContext {
	return &EpisodeContext{
		Context:        ctx,
		Episode:        episode,
		ExperimentName: experimentName,
		Trace:          NewTrace(),
	}
}

func (e *EpisodeContext) cancelled() bool {
	select {
	case <-e.Context.Done():
		return true
	default:
		return false
	}
}

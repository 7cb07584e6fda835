package types

import (
	"context"
	"encoding/json"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/zeu5/carsim/log"
	"github.com/zeu5/carsim/util"
)

// RunConfig is the execution configuration of an experiment
type RunConfig struct {
	Episodes int
	Horizon  int

	// additional analyzers fed with every episode
	Analyzers []Analyzer

	// traces are appended as JSON lines under RecordPath/traces when set
	RecordPath string

	Logger log.Log
}

func (c RunConfig) logger() log.Log {
	if c.Logger == nil {
		return log.NewNop()
	}
	return c.Logger
}

// Experiment encapsulates a policy and the environment it drives
type Experiment struct {
	Name        string
	policy      Policy
	environment Environment
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, policy Policy, environment Environment) *Experiment {
	return &Experiment{
		Name:        name,
		policy:      policy,
		environment: environment,
	}
}

func (e *Experiment) tracesFile(recordPath string) string {
	return path.Join(recordPath, "traces", e.Name+".jsonl")
}

func (e *Experiment) recordTrace(recordPath string, trace *Trace) error {
	bs, err := json.Marshal(trace)
	if err != nil {
		return errors.Wrap(err, "encoding trace")
	}
	return errors.Wrap(util.AppendToFile(e.tracesFile(recordPath), string(bs)), "recording trace")
}

// Run the experiment for the specified number of episodes, stops early when
// the context is cancelled
func (e *Experiment) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	logger := cfg.logger().With(log.String("experiment", e.Name))

	if cfg.RecordPath != "" {
		if err := os.MkdirAll(path.Join(cfg.RecordPath, "traces"), os.ModePerm); err != nil {
			return nil, errors.Wrap(err, "creating traces folder")
		}
	}

	outcomes := NewOutcomeAnalyzer(e.Name)
	agent := NewAgent(&AgentConfig{
		Horizon:     cfg.Horizon,
		Policy:      e.policy,
		Environment: e.environment,
	})

	for i := 0; i < cfg.Episodes; i++ {
		if ctx.Err() != nil {
			break
		}
		eCtx := NewEpisodeContext(ctx, i, e.Name)
		agent.RunEpisode(eCtx)

		outcomes.Analyze(eCtx)
		for _, a := range cfg.Analyzers {
			a.Analyze(eCtx)
		}
		if cfg.RecordPath != "" {
			if err := e.recordTrace(cfg.RecordPath, eCtx.Trace); err != nil {
				return nil, err
			}
		}
		logger.Debug("episode finished",
			log.Int("episode", i),
			log.String("outcome", eCtx.Outcome.String()),
			log.Int("timesteps", eCtx.Timesteps),
			log.Float64("return", eCtx.Trace.Return()),
			log.Duration("duration", eCtx.RunDuration),
		)
	}

	result := outcomes.DataSet().(*Result)
	logger.Info("experiment finished",
		log.Int("episodes", result.Episodes),
		log.Int("successes", result.Successes),
		log.Int("failures", result.Failures),
		log.Float64("mean_return", result.MeanReturn),
	)
	return result, ctx.Err()
}

package types

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zeu5/carsim/log"
)

// ParallelExperiment runs the episodes of an experiment on several workers.
// Every worker owns the environment and policy returned by the factories,
// nothing mutable is shared between them.
type ParallelExperiment struct {
	Name           string
	NewEnvironment func() Environment
	NewPolicy      func() Policy
	Workers        int
}

func NewParallelExperiment(name string, workers int, newEnvironment func() Environment, newPolicy func() Policy) *ParallelExperiment {
	if workers < 1 {
		workers = 1
	}
	return &ParallelExperiment{
		Name:           name,
		NewEnvironment: newEnvironment,
		NewPolicy:      newPolicy,
		Workers:        workers,
	}
}

// split the episodes as evenly as possible among the workers
func (p *ParallelExperiment) split(episodes int) []int {
	shares := make([]int, p.Workers)
	for i := range shares {
		shares[i] = episodes / p.Workers
		if i < episodes%p.Workers {
			shares[i] += 1
		}
	}
	return shares
}

// lockedAnalyzer lets the workers feed a shared analyzer
type lockedAnalyzer struct {
	lock *sync.Mutex
	Analyzer
}

func (l lockedAnalyzer) Analyze(eCtx *EpisodeContext) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.Analyzer.Analyze(eCtx)
}

// Run executes cfg.Episodes episodes in total and merges the results.
// Analyzers in cfg are fed by every worker, one episode at a time.
func (p *ParallelExperiment) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	logger := cfg.logger().With(log.String("experiment", p.Name))

	lock := new(sync.Mutex)
	merged := &Result{Name: p.Name, Returns: make([]float64, 0)}

	analyzerLock := new(sync.Mutex)
	analyzers := make([]Analyzer, len(cfg.Analyzers))
	for i, a := range cfg.Analyzers {
		analyzers[i] = lockedAnalyzer{lock: analyzerLock, Analyzer: a}
	}

	g, gCtx := errgroup.WithContext(ctx)
	for w, share := range p.split(cfg.Episodes) {
		if share == 0 {
			continue
		}
		worker := NewExperiment(p.Name, p.NewPolicy(), p.NewEnvironment())
		wCfg := RunConfig{
			Episodes:   share,
			Horizon:    cfg.Horizon,
			Analyzers:  analyzers,
			RecordPath: cfg.RecordPath,
			Logger:     logger.With(log.Int("worker", w)),
		}
		g.Go(func() error {
			res, err := worker.Run(gCtx, wCfg)
			if res != nil {
				lock.Lock()
				merged.merge(res)
				lock.Unlock()
			}
			return err
		})
	}
	err := g.Wait()
	merged.finalize()
	return merged, err
}

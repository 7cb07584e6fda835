package types

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information of the episodes to a DataSet
type Analyzer interface {
	Analyze(*EpisodeContext)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Result summarizes the episodes of an experiment
type Result struct {
	Name string `json:"name"`

	Episodes    int `json:"episodes"`
	Successes   int `json:"successes"`
	Failures    int `json:"failures"`
	HorizonEnds int `json:"horizon_ends"`
	Stopped     int `json:"stopped"`
	Cancelled   int `json:"cancelled"`
	Timesteps   int `json:"timesteps"`

	Returns    []float64 `json:"returns"`
	MeanReturn float64   `json:"mean_return"`
	StdReturn  float64   `json:"std_return"`
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: episodes=%d success=%d failure=%d horizon=%d stopped=%d timesteps=%d return=%.3f±%.3f",
		r.Name, r.Episodes, r.Successes, r.Failures, r.HorizonEnds, r.Stopped, r.Timesteps, r.MeanReturn, r.StdReturn)
}

func (r *Result) add(eCtx *EpisodeContext) {
	r.Episodes += 1
	r.Timesteps += eCtx.Timesteps
	switch eCtx.Outcome {
	case OutcomeSuccess:
		r.Successes += 1
	case OutcomeFailure:
		r.Failures += 1
	case OutcomeStopped:
		r.Stopped += 1
	case OutcomeCancelled:
		r.Cancelled += 1
	default:
		r.HorizonEnds += 1
	}
	r.Returns = append(r.Returns, eCtx.Trace.Return())
}

func (r *Result) merge(other *Result) {
	r.Episodes += other.Episodes
	r.Successes += other.Successes
	r.Failures += other.Failures
	r.HorizonEnds += other.HorizonEnds
	r.Stopped += other.Stopped
	r.Cancelled += other.Cancelled
	r.Timesteps += other.Timesteps
	r.Returns = append(r.Returns, other.Returns...)
}

func (r *Result) finalize() {
	if len(r.Returns) == 0 {
		return
	}
	if len(r.Returns) == 1 {
		r.MeanReturn = r.Returns[0]
		r.StdReturn = 0
		return
	}
	r.MeanReturn, r.StdReturn = stat.MeanStdDev(r.Returns, nil)
}

// OutcomeAnalyzer aggregates episode outcomes and returns into a Result
type OutcomeAnalyzer struct {
	name   string
	result *Result
}

var _ Analyzer = &OutcomeAnalyzer{}

func NewOutcomeAnalyzer(name string) *OutcomeAnalyzer {
	return &OutcomeAnalyzer{
		name:   name,
		result: &Result{Name: name, Returns: make([]float64, 0)},
	}
}

func (o *OutcomeAnalyzer) Analyze(eCtx *EpisodeContext) {
	o.result.add(eCtx)
}

func (o *OutcomeAnalyzer) DataSet() DataSet {
	o.result.finalize()
	return o.result
}

func (o *OutcomeAnalyzer) Reset() {
	o.result = &Result{Name: o.name, Returns: make([]float64, 0)}
}

// CoverageAnalyzer counts the distinct abstract states visited,
// the dataset is the cumulative count after every episode
type CoverageAnalyzer struct {
	abstractor StateAbstractor
	seen       map[string]bool
	coverage   []int
}

var _ Analyzer = &CoverageAnalyzer{}

func NewCoverageAnalyzer(abstractor StateAbstractor) *CoverageAnalyzer {
	return &CoverageAnalyzer{
		abstractor: abstractor,
		seen:       make(map[string]bool),
		coverage:   make([]int, 0),
	}
}

func (c *CoverageAnalyzer) Analyze(eCtx *EpisodeContext) {
	trace := eCtx.Trace
	for j := 0; j < trace.Len(); j++ {
		s, _, next, _, _ := trace.Get(j)
		c.seen[c.abstractor(s)] = true
		c.seen[c.abstractor(next)] = true
	}
	c.coverage = append(c.coverage, len(c.seen))
}

func (c *CoverageAnalyzer) DataSet() DataSet {
	return c.coverage
}

func (c *CoverageAnalyzer) Reset() {
	c.seen = make(map[string]bool)
	c.coverage = make([]int, 0)
}

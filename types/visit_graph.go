package types

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/zeu5/carsim/util"
)

// VisitGraph records the transitions observed between abstract states
type VisitGraph struct {
	Nodes map[string]*Node `json:"nodes"`

	abstractor StateAbstractor
}

func NewVisitGraph(abstractor StateAbstractor) *VisitGraph {
	return &VisitGraph{
		Nodes:      make(map[string]*Node),
		abstractor: abstractor,
	}
}

// Update adds the transition, returns true when from was never seen before
func (v *VisitGraph) Update(from State, action string, to State) bool {
	fromKey := v.abstractor(from)
	toKey := v.abstractor(to)
	new := false
	if _, ok := v.Nodes[fromKey]; !ok {
		v.Nodes[fromKey] = NewNode(fromKey, from)
		new = true
	}
	if _, ok := v.Nodes[toKey]; !ok {
		v.Nodes[toKey] = NewNode(toKey, to)
	}
	v.Nodes[fromKey].Visits += 1
	v.Nodes[fromKey].AddNext(action, toKey)
	v.Nodes[toKey].AddPrev(action, fromKey)
	return new
}

func (v *VisitGraph) GetVisits() map[string]int {
	results := make(map[string]int)
	for k, n := range v.Nodes {
		results[k] = n.Visits
	}
	return results
}

// Record writes the graph as JSON to filePath
func (v *VisitGraph) Record(filePath string) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding visit graph")
	}
	return errors.Wrap(util.WriteToFile(filePath, string(bs)), "recording visit graph")
}

// Analyze adds every transition of the episode trace
func (v *VisitGraph) Analyze(eCtx *EpisodeContext) {
	trace := eCtx.Trace
	for j := 0; j < trace.Len(); j++ {
		s, a, next, _, _ := trace.Get(j)
		v.Update(s, a.Hash(), next)
	}
}

func (v *VisitGraph) DataSet() DataSet {
	return v
}

func (v *VisitGraph) Reset() {
	v.Nodes = make(map[string]*Node)
}

var _ Analyzer = &VisitGraph{}

type Node struct {
	Key         string    `json:"key"`
	Observation []float64 `json:"observation"`
	Visits      int       `json:"visits"`
	// Next, Prev: Each action can lead to many states
	Next map[string]map[string]bool `json:"next"`
	Prev map[string]map[string]bool `json:"prev"`
}

func NewNode(key string, s State) *Node {
	return &Node{
		Key:         key,
		Observation: s.Observation(),
		Visits:      0,
		Next:        make(map[string]map[string]bool),
		Prev:        make(map[string]map[string]bool),
	}
}

func (n *Node) AddPrev(a, prev string) {
	if _, ok := n.Prev[a]; !ok {
		n.Prev[a] = make(map[string]bool)
	}
	n.Prev[a][prev] = true
}

func (n *Node) AddNext(a, next string) {
	if _, ok := n.Next[a]; !ok {
		n.Next[a] = make(map[string]bool)
	}
	n.Next[a][next] = true
}

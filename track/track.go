// Package track runs driving episodes of a vehicle on a walled track.
//
// A Track is not safe for concurrent use. Tracks built from the same Layout
// share its walls read-only, so independent episodes can run on separate
// Tracks in parallel.
package track

import (
	"sort"

	"github.com/zeu5/carsim/geometry"
	"github.com/zeu5/carsim/log"
	"github.com/zeu5/carsim/vehicle"
)

// NoWall is the distance reported by a sensor that sees no wall
const NoWall = -1.0

// State is the observation exposed to the policies: the distance measured by
// each of the three sensors, NoWall when nothing is in sight
type State struct {
	Front float64 `json:"front"`
	Right float64 `json:"right"`
	Left  float64 `json:"left"`
}

func (s State) Slice() []float64 {
	return []float64{s.Front, s.Right, s.Left}
}

// Status of the episode
type Status int

const (
	NotStarted Status = iota
	Running
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "not_started"
	}
}

// sensors in the order of the State fields
var sensors = [3]vehicle.Tag{vehicle.Front, vehicle.Right, vehicle.Left}

type Option func(*Track)

func WithReward(r RewardConfig) Option {
	return func(t *Track) {
		t.reward = r
	}
}

func WithLogger(l log.Log) Option {
	return func(t *Track) {
		t.logger = l
	}
}

// Track owns the vehicle and the episode state
type Track struct {
	layout Layout
	car    vehicle.Vehicle
	reward RewardConfig
	logger log.Log

	started       bool
	done          bool
	atDestination bool
	// wall intersections per sensor, sorted by distance to the sensor
	intersections [3][]geometry.Point
}

// New builds a track and resets it. The vehicle starts from the layout start
// pose when there is one, from the configured start otherwise.
func New(layout Layout, config vehicle.Config, opts ...Option) *Track {
	t := &Track{
		layout: layout,
		car:    *vehicle.New(config),
		reward: DefaultRewardConfig(),
		logger: log.NewNop(),
	}
	for _, o := range opts {
		o(t)
	}
	if layout.Start != nil {
		t.car.SetHome(*layout.Start)
	}
	t.Reset()
	return t
}

// Reset starts a new episode from the start pose
func (t *Track) Reset() State {
	t.started = true
	t.done = false
	t.atDestination = false
	t.car.Reset()
	t.check()
	return t.State()
}

// Place moves the vehicle and reevaluates the episode state.
// Has no effect on the flags once the episode is done.
func (t *Track) Place(p vehicle.Pose) {
	t.car.Place(p)
	t.check()
}

// Step steers the vehicle with a discrete action index and advances it
func (t *Track) Step(action int, stepCount int) (State, float64) {
	t.car.SetWheelAngle(t.car.WheelAngleForAction(action))
	return t.advance(stepCount)
}

// StepAngle steers the vehicle with a wheel angle in degrees and advances it
func (t *Track) StepAngle(deg float64, stepCount int) (State, float64) {
	t.car.SetWheelAngle(deg)
	return t.advance(stepCount)
}

// Advance moves the vehicle keeping the current wheel angle
func (t *Track) Advance(stepCount int) (State, float64) {
	return t.advance(stepCount)
}

// the vehicle only moves while the episode runs, the reward is always computed
func (t *Track) advance(stepCount int) (State, float64) {
	if !t.done {
		t.car.Tick()
		t.check()
	}
	return t.State(), t.Reward(stepCount)
}

// check updates the termination flags and the sensor intersections
func (t *Track) check() {
	if t.done {
		return
	}

	center := t.car.Position(vehicle.Center)
	contact := t.car.ContactDistance()

	t.atDestination = center.IsInRect(t.layout.Destination[0], t.layout.Destination[1])
	done := t.atDestination

	rays := [3]sensorRay{}
	for i, tag := range sensors {
		rays[i] = newSensorRay(center, t.car.Position(tag))
	}

	for _, wall := range t.layout.Walls {
		d1 := geometry.Distance(center, wall.P1)
		d2 := geometry.Distance(center, wall.P2)
		length := wall.Length()

		overlaps := [3]geometry.Overlap{}
		for i := range rays {
			overlaps[i] = rays[i].ray.Overlap(wall)
		}

		endTouch := d1 < contact || d2 < contact
		// approximation: distance to the unbounded line, "between" the
		// endpoints when both are closer than the wall length
		bodyTouch := wall.DistanceToLine(center) < contact && d1 < length && d2 < length
		if endTouch || bodyTouch || overlaps[0].Touches {
			done = true
		}

		for i := range rays {
			rays[i].consider(wall, overlaps[i])
		}
	}

	for i := range rays {
		t.intersections[i] = rays[i].sorted()
	}

	t.done = done
	if done {
		t.logger.Debug("episode ended",
			log.String("status", t.Status().String()),
			log.Float64("x", center.X),
			log.Float64("y", center.Y),
		)
	}
}

// sensorRay collects the wall intersections of the ray cast from the
// vehicle center through a sensor reference point
type sensorRay struct {
	ray    geometry.Segment
	hits   []geometry.Point
	active bool
}

func newSensorRay(center, ref geometry.Point) sensorRay {
	return sensorRay{
		ray:    geometry.NewSegment(center, ref),
		hits:   make([]geometry.Point, 0),
		active: true,
	}
}

// consider keeps the intersection when it lies on the wall beyond the sensor
// reference point. A wall crossing the ray between the center and the sensor
// drops every intersection of the ray, including the ones found later on.
func (r *sensorRay) consider(wall geometry.Segment, o geometry.Overlap) {
	if !r.active || !o.Defined || o.U < 0 || o.U > 1 {
		return
	}
	if o.T > 1 {
		r.hits = append(r.hits, wall.At(o.U))
		return
	}
	if o.Touches {
		r.hits = r.hits[:0]
		r.active = false
	}
}

func (r *sensorRay) sorted() []geometry.Point {
	ref := r.ray.P2
	sort.SliceStable(r.hits, func(i, j int) bool {
		return geometry.Distance(r.hits[i], ref) < geometry.Distance(r.hits[j], ref)
	})
	return r.hits
}

// State returns the distance from the vehicle center to the nearest
// intersection of each sensor
func (t *Track) State() State {
	center := t.car.Position(vehicle.Center)
	dist := func(points []geometry.Point) float64 {
		if len(points) == 0 {
			return NoWall
		}
		return geometry.Distance(center, points[0])
	}
	return State{
		Front: dist(t.intersections[0]),
		Right: dist(t.intersections[1]),
		Left:  dist(t.intersections[2]),
	}
}

func (t *Track) Done() bool {
	return t.done
}

func (t *Track) AtDestination() bool {
	return t.atDestination
}

func (t *Track) Status() Status {
	switch {
	case !t.started:
		return NotStarted
	case !t.done:
		return Running
	case t.atDestination:
		return Success
	default:
		return Failed
	}
}

// Intersections returns the sorted wall intersections seen by a sensor,
// nil for the center tag
func (t *Track) Intersections(tag vehicle.Tag) []geometry.Point {
	for i, s := range sensors {
		if s == tag {
			out := make([]geometry.Point, len(t.intersections[i]))
			copy(out, t.intersections[i])
			return out
		}
	}
	return nil
}

func (t *Track) Position(tag vehicle.Tag) geometry.Point {
	return t.car.Position(tag)
}

func (t *Track) Pose() vehicle.Pose {
	return t.car.Pose()
}

func (t *Track) WheelAngle() float64 {
	return t.car.WheelAngle()
}

func (t *Track) NumActions() int {
	return t.car.NumActions()
}

// Layout returns the track description, its walls must not be modified
func (t *Track) Layout() Layout {
	return t.layout
}

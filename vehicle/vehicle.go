// Package vehicle implements the kinematic car driven around a track.
//
// Angles are in degrees. The heading grows counter clockwise and a positive
// wheel angle turns the car clockwise.
package vehicle

import (
	"math"

	"github.com/zeu5/carsim/geometry"
	"golang.org/x/exp/rand"
)

// Tag names one of the reference points of the vehicle
type Tag string

const (
	Center Tag = "center"
	Front  Tag = "front"
	Right  Tag = "right"
	Left   Tag = "left"
)

var AllTags = []Tag{Center, Front, Right, Left}

// Pose is the position and heading (degrees) of the vehicle
type Pose struct {
	Position geometry.Point `json:"position" yaml:"position"`
	Heading  float64        `json:"heading" yaml:"heading"`
}

// Config holds the immutable parameters of a vehicle
type Config struct {
	// distance from the center to the reference points, also the contact distance
	Radius float64 `json:"radius" yaml:"radius"`
	// steering bounds
	WheelMin float64 `json:"wheel_min" yaml:"wheel_min"`
	WheelMax float64 `json:"wheel_max" yaml:"wheel_max"`
	// heading normalisation window, HeadingMax-HeadingMin must be 360
	HeadingMin float64 `json:"heading_min" yaml:"heading_min"`
	HeadingMax float64 `json:"heading_max" yaml:"heading_max"`
	// angle between the heading and the side sensors
	SensorAngle float64 `json:"sensor_angle" yaml:"sensor_angle"`

	// pose restored by Reset unless the track records its own
	Start Pose `json:"start" yaml:"start"`
	// half range of the uniform x offset added to the home position on Reset
	StartJitter float64 `json:"start_jitter" yaml:"start_jitter"`
	Seed        uint64  `json:"seed" yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Radius:      3,
		WheelMin:    -40,
		WheelMax:    40,
		HeadingMin:  -90,
		HeadingMax:  270,
		SensorAngle: 45,
		Start: Pose{
			Position: geometry.NewPoint(0, 0),
			Heading:  90,
		},
	}
}

// Vehicle is a simplified bicycle model advanced in fixed ticks
type Vehicle struct {
	config Config

	position   geometry.Point
	heading    float64
	wheelAngle float64

	home Pose
	// the home pose was set explicitly and is restored without jitter
	fixedHome bool
	rand      *rand.Rand
}

func New(config Config) *Vehicle {
	v := &Vehicle{
		config: config,
		home:   config.Start,
	}
	if config.StartJitter > 0 {
		v.rand = rand.New(rand.NewSource(config.Seed))
	}
	v.Reset()
	return v
}

func (v *Vehicle) Config() Config {
	return v.config
}

func (v *Vehicle) Radius() float64 {
	return v.config.Radius
}

// ContactDistance is the distance under which a wall is considered touched
func (v *Vehicle) ContactDistance() float64 {
	return v.config.Radius
}

func (v *Vehicle) WheelAngle() float64 {
	return v.wheelAngle
}

func (v *Vehicle) Heading() float64 {
	return v.heading
}

func (v *Vehicle) Pose() Pose {
	return Pose{Position: v.position, Heading: v.heading}
}

// Reset moves the vehicle back to its home pose with straight wheels.
// The start jitter only applies to the configured start pose.
func (v *Vehicle) Reset() {
	v.wheelAngle = 0
	v.position = v.home.Position
	if v.rand != nil && !v.fixedHome {
		v.position.X += (v.rand.Float64()*2 - 1) * v.config.StartJitter
	}
	v.SetHeading(v.home.Heading)
}

// SetHome changes the pose restored by Reset, the pose is restored exactly
func (v *Vehicle) SetHome(p Pose) {
	v.home = p
	v.fixedHome = true
}

// SetPosition ignores non finite coordinates
func (v *Vehicle) SetPosition(p geometry.Point) {
	if !finite(p.X) || !finite(p.Y) {
		return
	}
	v.position = p
}

// SetHeading ignores non finite angles
func (v *Vehicle) SetHeading(deg float64) {
	if !finite(deg) {
		return
	}
	v.heading = v.normalize(deg)
}

func (v *Vehicle) Place(p Pose) {
	v.SetPosition(p.Position)
	v.SetHeading(p.Heading)
}

// SetWheelAngle clamps the angle into the steering bounds, NaN straightens
// the wheels
func (v *Vehicle) SetWheelAngle(deg float64) {
	if math.IsNaN(deg) {
		deg = 0
	}
	v.wheelAngle = math.Max(v.config.WheelMin, math.Min(v.config.WheelMax, deg))
}

// NumActions is the number of discrete steering commands
func (v *Vehicle) NumActions() int {
	return int(v.config.WheelMax-v.config.WheelMin) + 1
}

// WheelAngleForAction maps an action index linearly onto the steering bounds.
// Indices out of range map outside the bounds and get clamped by SetWheelAngle.
func (v *Vehicle) WheelAngleForAction(action int) float64 {
	n := v.NumActions()
	if n <= 1 {
		return v.config.WheelMin
	}
	return v.config.WheelMin + float64(action)*(v.config.WheelMax-v.config.WheelMin)/float64(n-1)
}

// Tick advances the vehicle by one time step. The car moves one unit per
// tick when the wheels are straight.
func (v *Vehicle) Tick() {
	h := geometry.Radians(v.heading)
	w := geometry.Radians(v.wheelAngle)

	v.position = geometry.NewPoint(
		v.position.X+math.Cos(h+w)+math.Sin(w)*math.Sin(h),
		v.position.Y+math.Sin(h+w)-math.Sin(w)*math.Cos(h),
	)
	// wheelbase of one and a half body lengths
	turn := math.Asin(math.Max(-1, math.Min(1, 2*math.Sin(w)/(3*v.config.Radius))))
	v.SetHeading(geometry.Degrees(h - turn))
}

// Position returns the reference point named by tag, the center otherwise
func (v *Vehicle) Position(tag Tag) geometry.Point {
	switch tag {
	case Front:
		return v.offset(v.heading)
	case Right:
		return v.offset(v.heading - v.config.SensorAngle)
	case Left:
		return v.offset(v.heading + v.config.SensorAngle)
	default:
		return v.position
	}
}

func (v *Vehicle) offset(deg float64) geometry.Point {
	return v.position.Add(geometry.NewPoint(v.config.Radius, 0).Rotate(deg))
}

// normalize maps deg into (HeadingMin, HeadingMax]
func (v *Vehicle) normalize(deg float64) float64 {
	back := math.Mod(v.config.HeadingMax-deg, 360)
	if back < 0 {
		back += 360
	}
	return v.config.HeadingMax - back
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

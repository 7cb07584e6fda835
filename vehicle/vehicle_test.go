package vehicle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeu5/carsim/geometry"
)

func TestSetWheelAngleClamps(t *testing.T) {
	v := New(DefaultConfig())

	for _, in := range []float64{9999, 41, 40, 0, -12.5, -40, -41, -9999} {
		v.SetWheelAngle(in)
		assert.GreaterOrEqual(t, v.WheelAngle(), -40.0)
		assert.LessOrEqual(t, v.WheelAngle(), 40.0)
	}

	v.SetWheelAngle(9999)
	assert.Equal(t, 40.0, v.WheelAngle())
	v.SetWheelAngle(-9999)
	assert.Equal(t, -40.0, v.WheelAngle())
	v.SetWheelAngle(12.5)
	assert.Equal(t, 12.5, v.WheelAngle())
	v.SetWheelAngle(math.Inf(1))
	assert.Equal(t, 40.0, v.WheelAngle())
	v.SetWheelAngle(math.NaN())
	assert.Equal(t, 0.0, v.WheelAngle())
}

func TestNonFinitePoseIsIgnored(t *testing.T) {
	v := New(DefaultConfig())

	v.SetWheelAngle(math.NaN())
	for i := 0; i < 3; i++ {
		v.Tick()
	}
	assert.InDelta(t, 3, v.Position(Center).Y, 1e-12)
	assert.InDelta(t, 90, v.Heading(), 1e-12)

	v.Place(Pose{Position: geometry.NewPoint(math.NaN(), 1), Heading: math.Inf(-1)})
	assert.InDelta(t, 3, v.Position(Center).Y, 1e-12)
	assert.InDelta(t, 90, v.Heading(), 1e-12)
}

func TestActionMapping(t *testing.T) {
	v := New(DefaultConfig())

	assert.Equal(t, 81, v.NumActions())
	assert.Equal(t, -40.0, v.WheelAngleForAction(0))
	assert.Equal(t, 0.0, v.WheelAngleForAction(40))
	assert.Equal(t, 40.0, v.WheelAngleForAction(80))
}

func TestTickStraight(t *testing.T) {
	v := New(DefaultConfig())
	before := v.Position(Center)

	v.Tick()

	after := v.Position(Center)
	assert.InDelta(t, 1.0, geometry.Distance(before, after), 1e-12)
	assert.InDelta(t, 0, after.X, 1e-12)
	assert.InDelta(t, 1, after.Y, 1e-12)
	assert.InDelta(t, 90, v.Heading(), 1e-12)
}

func TestTickTurns(t *testing.T) {
	v := New(DefaultConfig())

	v.SetWheelAngle(40)
	v.Tick()
	assert.Less(t, v.Heading(), 90.0, "positive wheel angle turns clockwise")
	expected := 90 - geometry.Degrees(math.Asin(2*math.Sin(geometry.Radians(40))/9))
	assert.InDelta(t, expected, v.Heading(), 1e-9)

	v.Reset()
	v.SetWheelAngle(-40)
	v.Tick()
	assert.Greater(t, v.Heading(), 90.0)
}

func TestTickDeterministic(t *testing.T) {
	run := func() Pose {
		v := New(DefaultConfig())
		for i := 0; i < 50; i++ {
			v.SetWheelAngle(float64(i%9*10 - 40))
			v.Tick()
		}
		return v.Pose()
	}
	assert.Equal(t, run(), run())
}

func TestHeadingNormalization(t *testing.T) {
	v := New(DefaultConfig())

	for _, tc := range []struct {
		in, out float64
	}{
		{90, 90},
		{270, 270},
		{271, -89},
		{360, 0},
		{-90, 270},
		{-45, -45},
		{450, 90},
	} {
		v.SetHeading(tc.in)
		assert.InDelta(t, tc.out, v.Heading(), 1e-12, "heading %v", tc.in)
	}
}

func TestHeadingWindowWithPositiveMinimum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeadingMin, cfg.HeadingMax = 90, 450
	v := New(cfg)

	for _, tc := range []struct {
		in, out float64
	}{
		{45, 405},
		{90, 450},
		{91, 91},
		{450, 450},
		{-10, 350},
	} {
		v.SetHeading(tc.in)
		assert.InDelta(t, tc.out, v.Heading(), 1e-12, "heading %v", tc.in)
	}
}

func TestReferencePoints(t *testing.T) {
	v := New(DefaultConfig())

	center := v.Position(Center)
	front := v.Position(Front)
	right := v.Position(Right)
	left := v.Position(Left)

	assert.Equal(t, geometry.NewPoint(0, 0), center)
	assert.InDelta(t, 0, front.X, 1e-12)
	assert.InDelta(t, 3, front.Y, 1e-12)

	d := 3 / math.Sqrt2
	assert.InDelta(t, d, right.X, 1e-12)
	assert.InDelta(t, d, right.Y, 1e-12)
	assert.InDelta(t, -d, left.X, 1e-12)
	assert.InDelta(t, d, left.Y, 1e-12)

	for _, tag := range AllTags[1:] {
		assert.InDelta(t, v.Radius(), geometry.Distance(center, v.Position(tag)), 1e-12)
	}
}

func TestReset(t *testing.T) {
	v := New(DefaultConfig())
	home := Pose{Position: geometry.NewPoint(1, 2), Heading: 45}
	v.SetHome(home)

	v.SetWheelAngle(30)
	v.Tick()
	v.Tick()
	v.Reset()

	assert.Equal(t, home, v.Pose())
	assert.Zero(t, v.WheelAngle())
}

func TestResetJitterIsSeeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartJitter = 1.5
	cfg.Seed = 7

	a := New(cfg)
	b := New(cfg)
	for i := 0; i < 5; i++ {
		a.Reset()
		b.Reset()
		assert.Equal(t, a.Pose(), b.Pose())
		assert.LessOrEqual(t, math.Abs(a.Pose().Position.X), 1.5)
		assert.Zero(t, a.Pose().Position.Y)
	}
}

func TestExplicitHomeSkipsJitter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartJitter = 4.5
	cfg.Seed = 3
	v := New(cfg)

	home := Pose{Position: geometry.NewPoint(0, 5), Heading: 90}
	v.SetHome(home)
	for i := 0; i < 3; i++ {
		v.SetWheelAngle(20)
		v.Tick()
		v.Reset()
		assert.Equal(t, home, v.Pose())
	}
}

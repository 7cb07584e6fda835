package track

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/carsim/geometry"
	"github.com/zeu5/carsim/log"
	"github.com/zeu5/carsim/vehicle"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sampleTrack = `0,0,90
18,40
30,37

-6,-3
-6,22
18,22
18,22
18,50
`

func TestParseLayout(t *testing.T) {
	layout, err := ParseLayout(strings.NewReader(sampleTrack))
	require.NoError(t, err)

	require.NotNil(t, layout.Start)
	assert.Equal(t, geometry.NewPoint(0, 0), layout.Start.Position)
	assert.Equal(t, 90.0, layout.Start.Heading)
	assert.Equal(t, [2]geometry.Point{geometry.NewPoint(18, 40), geometry.NewPoint(30, 37)}, layout.Destination)
	assert.Equal(t, []geometry.Segment{
		wall(-6, -3, -6, 22),
		wall(-6, 22, 18, 22),
		wall(18, 22, 18, 50),
	}, layout.Walls)
}

func TestParseLayoutWithoutWalls(t *testing.T) {
	layout, err := ParseLayout(strings.NewReader("0,0,90\n18,40\n30,37\n-6,-3\n"))
	require.NoError(t, err)
	require.NotNil(t, layout.Start)
	assert.Empty(t, layout.Walls)

	tr := New(layout, vehicle.DefaultConfig())
	assert.False(t, tr.Done())
	assert.Equal(t, State{Front: NoWall, Right: NoWall, Left: NoWall}, tr.State())
}

func TestParseLayoutErrors(t *testing.T) {
	cases := map[string]string{
		"too few lines":       "0,0,90\n18,40\n30,37\n",
		"start without angle": "0,0\n18,40\n30,37\n-6,-3\n-6,22\n",
		"not a number":        "0,0,90\n18,40\n30,x\n-6,-3\n-6,22\n",
		"extra value":         "0,0,90\n18,40\n30,37\n-6,-3,1\n-6,22\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLayout(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func observed() (log.Log, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return log.FromZap(zap.New(core), log.LevelDebug), logs
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleTrack), 0o644))

	logger, logs := observed()
	layout := LoadLayout(path, logger)
	assert.Len(t, layout.Walls, 3)
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestLoadLayoutFallsBack(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(malformed, []byte("0,0,90\n1,2\n"), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing.txt"), malformed} {
		logger, logs := observed()
		layout := LoadLayout(path, logger)

		assert.Equal(t, DefaultLayout(), layout)
		assert.Nil(t, layout.Start)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	}
}

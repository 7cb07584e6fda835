package track

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/zeu5/carsim/geometry"
	"github.com/zeu5/carsim/log"
	"github.com/zeu5/carsim/vehicle"
)

// Layout is the static description of a track. The walls are never
// modified once parsed and can be shared between tracks.
type Layout struct {
	// Start is nil when the description carries no start pose
	Start       *vehicle.Pose      `json:"start,omitempty"`
	Destination [2]geometry.Point  `json:"destination"`
	Walls       []geometry.Segment `json:"walls"`
}

// DestinationLine is the segment joining the two destination corners
func (l Layout) DestinationLine() geometry.Segment {
	return geometry.NewSegment(l.Destination[0], l.Destination[1])
}

// DefaultLayout is the built-in track used when no description can be read
func DefaultLayout() Layout {
	return Layout{
		Destination: [2]geometry.Point{geometry.NewPoint(18, 40), geometry.NewPoint(30, 37)},
		Walls: []geometry.Segment{
			wall(-6, -3, 6, -3),
			wall(6, -3, 6, 10),
			wall(6, 10, 30, 10),
			wall(30, 10, 30, 50),
			wall(18, 50, 30, 50),
			wall(18, 22, 18, 50),
			wall(-6, 22, 18, 22),
			wall(-6, -3, -6, 22),
		},
	}
}

func wall(x1, y1, x2, y2 float64) geometry.Segment {
	return geometry.NewSegment(geometry.NewPoint(x1, y1), geometry.NewPoint(x2, y2))
}

// ParseLayout reads a track description:
//
//	x, y, heading   start pose
//	x, y            destination corner
//	x, y            destination corner
//	x, y            first wall vertex
//	x, y            ... every following vertex closes a wall with the previous one
func ParseLayout(r io.Reader) (Layout, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return Layout{}, errors.Wrap(err, "reading track description")
	}
	if len(lines) < 4 {
		return Layout{}, errors.Errorf("track description needs at least 4 lines, got %d", len(lines))
	}

	start, err := parseFloats(lines[0], 3)
	if err != nil {
		return Layout{}, errors.Wrap(err, "line 1")
	}
	layout := Layout{
		Start: &vehicle.Pose{
			Position: geometry.NewPoint(start[0], start[1]),
			Heading:  start[2],
		},
	}
	for i := 0; i < 2; i++ {
		p, err := parsePoint(lines[1+i])
		if err != nil {
			return Layout{}, errors.Wrapf(err, "line %d", 2+i)
		}
		layout.Destination[i] = p
	}

	prev, err := parsePoint(lines[3])
	if err != nil {
		return Layout{}, errors.Wrap(err, "line 4")
	}
	layout.Walls = make([]geometry.Segment, 0, len(lines)-4)
	for i, line := range lines[4:] {
		p, err := parsePoint(line)
		if err != nil {
			return Layout{}, errors.Wrapf(err, "line %d", 5+i)
		}
		// repeated vertices would make zero length walls
		if p != prev {
			layout.Walls = append(layout.Walls, geometry.NewSegment(prev, p))
		}
		prev = p
	}
	return layout, nil
}

// LoadLayout reads the description at path. Any failure is logged and the
// default layout is returned instead.
func LoadLayout(path string, logger log.Log) Layout {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("could not open track description, using default track", log.String("path", path), log.Err(err))
		return DefaultLayout()
	}
	defer f.Close()

	layout, err := ParseLayout(f)
	if err != nil {
		logger.Warn("malformed track description, using default track", log.String("path", path), log.Err(err))
		return DefaultLayout()
	}
	logger.Debug("track loaded", log.String("path", path), log.Int("walls", len(layout.Walls)))
	return layout
}

func parsePoint(line string) (geometry.Point, error) {
	vals, err := parseFloats(line, 2)
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.NewPoint(vals[0], vals[1]), nil
}

func parseFloats(line string, n int) ([]float64, error) {
	parts := strings.Split(line, ",")
	if len(parts) != n {
		return nil, errors.Errorf("expected %d values, got %d in %q", n, len(parts), line)
	}
	vals := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", i+1)
		}
		vals[i] = v
	}
	return vals, nil
}

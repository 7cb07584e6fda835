package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/zeu5/carsim/geometry"
	"github.com/zeu5/carsim/track"
	"github.com/zeu5/carsim/vehicle"
)

type inspection struct {
	Pose          vehicle.Pose                     `json:"pose"`
	Destination   [2]geometry.Point                `json:"destination"`
	Status        string                           `json:"status"`
	State         track.State                      `json:"state"`
	Reward        float64                          `json:"reward"`
	Points        map[vehicle.Tag]geometry.Point   `json:"points"`
	Intersections map[vehicle.Tag][]geometry.Point `json:"intersections"`
}

// InspectCommand prints the sensor readings of the vehicle at a pose
func InspectCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the readings of the vehicle at the start or at a given pose",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := settings()
			if err != nil {
				return err
			}
			logger := newLogger(c)
			defer logger.Sync()

			t := track.New(loadLayout(c, logger), c.Vehicle, track.WithReward(c.Reward), track.WithLogger(logger))
			if at != "" {
				p, err := parsePose(at)
				if err != nil {
					return err
				}
				t.Place(p)
			}

			bs, err := json.MarshalIndent(inspect(t), "", "  ")
			if err != nil {
				return errors.Wrap(err, "encoding inspection")
			}
			fmt.Println(string(bs))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Pose to place the vehicle at, as x,y,heading")
	return cmd
}

func inspect(t *track.Track) inspection {
	out := inspection{
		Pose:          t.Pose(),
		Destination:   t.Layout().Destination,
		Status:        t.Status().String(),
		State:         t.State(),
		Reward:        t.Reward(0),
		Points:        make(map[vehicle.Tag]geometry.Point),
		Intersections: make(map[vehicle.Tag][]geometry.Point),
	}
	for _, tag := range vehicle.AllTags {
		out.Points[tag] = t.Position(tag)
		if tag != vehicle.Center {
			out.Intersections[tag] = t.Intersections(tag)
		}
	}
	return out
}

func parsePose(s string) (vehicle.Pose, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return vehicle.Pose{}, errors.Errorf("pose needs x,y,heading, got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return vehicle.Pose{}, errors.Wrapf(err, "pose value %d", i+1)
		}
		vals[i] = v
	}
	return vehicle.Pose{Position: geometry.NewPoint(vals[0], vals[1]), Heading: vals[2]}, nil
}

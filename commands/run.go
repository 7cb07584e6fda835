package commands

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/carsim/config"
	"github.com/zeu5/carsim/log"
	"github.com/zeu5/carsim/track"
	"github.com/zeu5/carsim/types"
	"github.com/zeu5/carsim/util"
)

// RunCommand replays a fixed steering script for a number of episodes
func RunCommand() *cobra.Command {
	var (
		episodes   int
		horizon    int
		workers    int
		recordPath string
		script     []string
		fallback   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a steering script on the track and report the outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := settings()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("episodes") {
				c.Experiment.Episodes = episodes
			}
			if flags.Changed("horizon") {
				c.Experiment.Horizon = horizon
			}
			if flags.Changed("workers") {
				c.Experiment.Workers = workers
			}
			if flags.Changed("record") {
				c.Experiment.RecordPath = recordPath
			}
			if err := c.Validate(); err != nil {
				return err
			}
			if err := validateScript(script, fallback); err != nil {
				return err
			}

			logger := newLogger(c)
			defer logger.Sync()

			ctx, stop := interruptContext()
			defer stop()

			result, err := runScript(ctx, c, logger, script, fallback)
			if result != nil {
				fmt.Println(result.String())
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&episodes, "episodes", "e", 10, "Number of episodes to run")
	cmd.Flags().IntVar(&horizon, "horizon", 500, "Horizon of each episode")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Number of parallel workers")
	cmd.Flags().StringVarP(&recordPath, "record", "s", "", "Record traces and configuration in the specified folder")
	cmd.Flags().StringSliceVar(&script, "script", nil, "Comma separated action indices, one per step")
	cmd.Flags().StringVar(&fallback, "fallback", "40", "Action repeated once the script is exhausted, empty to stop")
	return cmd
}

func validateScript(script []string, fallback string) error {
	for _, a := range script {
		if _, err := track.ParseAction(a); err != nil {
			return err
		}
	}
	if fallback == "" {
		return nil
	}
	_, err := track.ParseAction(fallback)
	return err
}

func runScript(ctx context.Context, c config.Config, logger log.Log, script []string, fallback string) (*types.Result, error) {
	layout := loadLayout(c, logger)

	if c.Experiment.RecordPath != "" {
		configPath := path.Join(c.Experiment.RecordPath, "config.yaml")
		if err := util.WriteToFile(configPath, c.Printable()); err != nil {
			return nil, err
		}
	}

	e := types.NewParallelExperiment("script", c.Experiment.Workers,
		func() types.Environment {
			return track.NewEnvironment(layout, c.Vehicle,
				track.WithReward(c.Reward),
				track.WithLogger(logger),
			)
		},
		func() types.Policy {
			return types.NewScriptedPolicy(script, fallback)
		},
	)
	visits := types.NewVisitGraph(types.DefaultStateAbstractor())
	result, err := e.Run(ctx, types.RunConfig{
		Episodes:   c.Experiment.Episodes,
		Horizon:    c.Experiment.Horizon,
		Analyzers:  []types.Analyzer{visits},
		RecordPath: c.Experiment.RecordPath,
		Logger:     logger,
	})
	logger.Info("distinct states visited", log.Int("states", len(visits.Nodes)))
	if c.Experiment.RecordPath != "" {
		if rErr := visits.Record(path.Join(c.Experiment.RecordPath, "visits.json")); rErr != nil && err == nil {
			err = rErr
		}
	}
	return result, err
}

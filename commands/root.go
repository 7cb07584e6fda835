package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/zeu5/carsim/config"
	"github.com/zeu5/carsim/log"
	"github.com/zeu5/carsim/track"
)

var (
	configPath string
	trackPath  string
	logLevel   string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "carsim",
		Short:         "Car driving environment on walled tracks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCommand.PersistentFlags().StringVarP(&trackPath, "track", "t", "", "Track description file, overrides the configuration")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides the configuration")
	// adding the subcommands here
	rootCommand.AddCommand(RunCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(InspectCommand())
	return rootCommand
}

// settings loads the configuration and applies the persistent flags over it
func settings() (config.Config, error) {
	c := config.Default()
	if configPath != "" {
		var err error
		c, err = config.Load(configPath)
		if err != nil {
			return c, errors.Wrapf(err, "loading %s", configPath)
		}
	}
	if trackPath != "" {
		c.TrackPath = trackPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	return c, c.Validate()
}

func newLogger(c config.Config) *log.Logger {
	return log.New(log.ParseLevel(c.LogLevel))
}

func loadLayout(c config.Config, logger log.Log) track.Layout {
	if c.TrackPath == "" {
		return track.DefaultLayout()
	}
	return track.LoadLayout(c.TrackPath, logger)
}

// interruptContext is cancelled on the first interrupt, the returned function
// releases the signal handler
func interruptContext() (context.Context, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	doneCh := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		cancel()
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		close(doneCh)
	}
}

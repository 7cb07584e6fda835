package commands

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/carsim/server"
)

func ServeCommand() *cobra.Command {
	var addr string
	var maxEpisodes int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve driving episodes over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := settings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				c.Server.Addr = addr
			}
			if cmd.Flags().Changed("max-episodes") {
				c.Server.MaxEpisodes = maxEpisodes
			}
			if err := c.Validate(); err != nil {
				return err
			}

			logger := newLogger(c)
			defer logger.Sync()

			ctx, stop := interruptContext()
			defer stop()

			s := server.New(server.Config{
				Addr:        c.Server.Addr,
				MaxEpisodes: c.Server.MaxEpisodes,
				Layout:      loadLayout(c, logger),
				Vehicle:     c.Vehicle,
				Reward:      c.Reward,
				Logger:      logger,
			})
			return s.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")
	cmd.Flags().IntVar(&maxEpisodes, "max-episodes", 0, "Maximum number of concurrent episodes, 0 for no limit")
	return cmd
}

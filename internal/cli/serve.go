package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xxxsen/s3drop/internal/app"
)

func newServeCommand() *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the bucket over HTTP with metrics and health endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			if bind == "" {
				bind = cfg.Serve.Bind
			}

			fac, err := getFactory(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var runner app.IRunner = app.NewServeCommand(fac, bind)
			return runner.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "HTTP listen address, defaults to serve.bind from the config")
	return cmd
}

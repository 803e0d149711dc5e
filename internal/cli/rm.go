package cli

import (
	"github.com/spf13/cobra"

	"github.com/xxxsen/s3drop/internal/app"
)

func newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <key>...",
		Short: "Remove objects without waiting for the deletes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			prov, err := getProvider(cmd)
			if err != nil {
				return err
			}

			var runner app.IRunner = app.NewDeleteCommand(prov, args)
			return runner.Run(ctx)
		},
	}
	return cmd
}

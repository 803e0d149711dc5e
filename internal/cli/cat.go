package cli

import (
	"github.com/spf13/cobra"

	"github.com/xxxsen/s3drop/internal/app"
)

func newReadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <key>",
		Short: "Print the text content of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			prov, err := getProvider(cmd)
			if err != nil {
				return err
			}

			runner := app.NewReadCommand(prov, args[0])
			if err := runner.Run(ctx); err != nil {
				return err
			}
			cmd.Print(runner.Content())
			return nil
		},
	}
	return cmd
}

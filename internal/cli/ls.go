package cli

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xxxsen/s3drop/internal/app"
)

func newListCommand() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List every object key in the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prov, err := getProvider(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(commandContext(cmd), 5*time.Minute)
			defer cancel()

			runner := app.NewListCommand(prov, long)
			if err := runner.Run(ctx); err != nil {
				return err
			}

			if long {
				for _, info := range runner.Infos() {
					cmd.Printf("%10s  %s  %s\n", humanize.IBytes(uint64(info.Size)), info.LastModified.UTC().Format(time.RFC3339), info.Key)
				}
				return nil
			}
			for _, key := range runner.Keys() {
				cmd.Println(key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "Include object size and modification time")
	return cmd
}

package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/xxxsen/s3drop/internal/app"
)

func newWriteCommand() *cobra.Command {
	var content string
	var fromFile string

	cmd := &cobra.Command{
		Use:   "put <key>",
		Short: "Store text content under a key without waiting for the upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasContent := cmd.Flags().Changed("content")
			hasFile := cmd.Flags().Changed("file")
			if hasContent == hasFile {
				return errors.New("put requires exactly one of --content or --file")
			}

			ctx := commandContext(cmd)
			prov, err := getProvider(cmd)
			if err != nil {
				return err
			}

			var runner app.IRunner = app.NewWriteCommand(prov, args[0], content, fromFile)
			return runner.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Inline text content to store")
	cmd.Flags().StringVar(&fromFile, "file", "", "Path of a local file whose content is stored")
	return cmd
}

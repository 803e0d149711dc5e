package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/s3drop/internal/provider"
)

var rootCmd = &cobra.Command{
	Use:   "s3drop",
	Short: "Thin client for the s3drop object bucket with an asynchronous writer pool",
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		// Pending asynchronous writes and deletes must land before exit.
		if fac := provider.DefaultFactory(); fac != nil {
			return fac.Close()
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Error("exec cmd failed", zap.Error(err))
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to an explicit config file")
	rootCmd.AddCommand(
		newListCommand(),
		newReadCommand(),
		newWriteCommand(),
		newDeleteCommand(),
		newServeCommand(),
	)
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/xxxsen/s3drop/internal/provider"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// getFactory returns the process wide provider factory, creating and
// installing it on first use so PersistentPostRunE can flush it at exit.
func getFactory(cmd *cobra.Command) (*provider.Factory, error) {
	if fac := provider.DefaultFactory(); fac != nil {
		return fac, nil
	}
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	fac, err := provider.NewFactory(commandContext(cmd), cfg)
	if err != nil {
		return nil, err
	}
	provider.SetDefaultFactory(fac)
	return fac, nil
}

// getProvider acquires a provider owned by the current command invocation.
func getProvider(cmd *cobra.Command) (*provider.Provider, error) {
	fac, err := getFactory(cmd)
	if err != nil {
		return nil, err
	}
	return fac.Acquire(commandContext(cmd))
}

package app

import (
	"context"
)

// IRunner represents a runnable command in the application layer.
type IRunner interface {
	Run(ctx context.Context) error
}

// Every command the cli layer dispatches satisfies IRunner.
var (
	_ IRunner = (*ListCommand)(nil)
	_ IRunner = (*ReadCommand)(nil)
	_ IRunner = (*WriteCommand)(nil)
	_ IRunner = (*DeleteCommand)(nil)
	_ IRunner = (*ServeCommand)(nil)
)

package app

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// DeleteCommand schedules asynchronous removal of one or more objects.
// Removal is idempotent, keys that are already gone are silently skipped by
// the backend.
type DeleteCommand struct {
	prov Provider
	keys []string
}

// NewDeleteCommand builds the delete command.
func NewDeleteCommand(prov Provider, keys []string) *DeleteCommand {
	return &DeleteCommand{prov: prov, keys: keys}
}

// Run hands every removal to the writer pool; the deletes finish after Run
// has returned.
func (c *DeleteCommand) Run(ctx context.Context) error {
	for _, key := range c.keys {
		c.prov.Delete(ctx, key)
	}
	logutil.GetLogger(ctx).Info("delete scheduled", zap.Strings("keys", c.keys))
	return nil
}

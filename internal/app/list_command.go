package app

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/s3drop/internal/storage"
)

// ListCommand fetches the key of every object in the bucket, optionally
// enriched with per-object metadata.
type ListCommand struct {
	prov Provider
	long bool

	keys  []string
	infos []storage.ObjectInfo
}

// NewListCommand builds the listing command. With long set Run additionally
// stats every key it finds.
func NewListCommand(prov Provider, long bool) *ListCommand {
	return &ListCommand{prov: prov, long: long}
}

// Run executes the listing.
func (c *ListCommand) Run(ctx context.Context) error {
	keys, err := c.prov.List(ctx)
	if err != nil {
		return err
	}
	c.keys = keys
	logutil.GetLogger(ctx).Debug("listing completed", zap.Int("objects", len(keys)))

	if !c.long {
		return nil
	}

	infos := make([]storage.ObjectInfo, 0, len(keys))
	for _, key := range keys {
		info, err := c.prov.Stat(ctx, key)
		if err != nil {
			return err
		}
		infos = append(infos, info)
	}
	c.infos = infos
	return nil
}

// Keys returns the keys collected by Run.
func (c *ListCommand) Keys() []string {
	return c.keys
}

// Infos returns per-object metadata, populated only when the long form was
// requested.
func (c *ListCommand) Infos() []storage.ObjectInfo {
	return c.infos
}

package app

import (
	"context"

	"github.com/xxxsen/s3drop/internal/provider"
	"github.com/xxxsen/s3drop/internal/storage"
)

// Provider is the slice of the per-worker data provider the commands rely
// on. List, Read and Stat block until the backend answers; Write and Delete
// only schedule the operation and return.
type Provider interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, key string) (string, error)
	Stat(ctx context.Context, key string) (storage.ObjectInfo, error)
	Write(ctx context.Context, key string, content string)
	Delete(ctx context.Context, key string)
}

var _ Provider = (*provider.Provider)(nil)

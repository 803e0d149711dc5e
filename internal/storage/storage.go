package storage

import (
	"context"
	"time"
)

// Client abstracts the subset of object storage operations the tool needs.
// Every implementation is bound to a single bucket at construction time.
type Client interface {
	ListKeys(ctx context.Context) ([]string, error)
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key string, content string) error
	Delete(ctx context.Context, key string) error
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}

// ObjectInfo carries the object metadata exposed by Stat.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

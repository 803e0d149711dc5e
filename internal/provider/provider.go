package provider

import (
	"context"
	"fmt"

	"github.com/xxxsen/s3drop/internal/executor"
	"github.com/xxxsen/s3drop/internal/storage"
)

// Provider executes object operations against the fixed bucket on behalf of a
// single worker. A worker acquires its provider once and keeps it for its
// lifetime; providers are never shared between workers, which keeps the
// underlying client free of cross-worker state.
//
// List, Read and Stat are synchronous. Write and Delete are fire-and-forget:
// they hand the operation to the shared writer pool and return immediately,
// with failures logged and counted instead of reported to the caller.
type Provider struct {
	store storage.Client
	exec  *executor.Executor
}

// List returns every key currently present in the bucket.
func (p *Provider) List(ctx context.Context) ([]string, error) {
	return p.store.ListKeys(ctx)
}

// Read fetches the object under key and returns its body as text.
func (p *Provider) Read(ctx context.Context, key string) (string, error) {
	return p.store.Read(ctx, key)
}

// Stat returns metadata for the object under key.
func (p *Provider) Stat(ctx context.Context, key string) (storage.ObjectInfo, error) {
	return p.store.Stat(ctx, key)
}

// Write schedules an upload of content under key and returns without waiting
// for it. When the pool is saturated the upload runs on the calling
// goroutine instead, so pressure slows the caller down rather than losing
// the write.
func (p *Provider) Write(ctx context.Context, key string, content string) {
	store := p.store
	p.exec.Submit(ctx, func(tctx context.Context) error {
		if err := store.Write(tctx, key, content); err != nil {
			return fmt.Errorf("async write %s: %w", key, err)
		}
		return nil
	})
}

// Delete schedules removal of the object under key and returns without
// waiting for it. Removing an absent key is a no-op on the backend, so
// repeated deletes are harmless.
func (p *Provider) Delete(ctx context.Context, key string) {
	store := p.store
	p.exec.Submit(ctx, func(tctx context.Context) error {
		if err := store.Delete(tctx, key); err != nil {
			return fmt.Errorf("async delete %s: %w", key, err)
		}
		return nil
	})
}

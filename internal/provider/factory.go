package provider

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/xxxsen/s3drop/internal/config"
	"github.com/xxxsen/s3drop/internal/constant"
	"github.com/xxxsen/s3drop/internal/executor"
	"github.com/xxxsen/s3drop/internal/metrics"
	"github.com/xxxsen/s3drop/internal/storage"
)

// Factory turns configuration into per-worker providers and owns the writer
// pool they share. Credential and region resolution happens once, on the
// first Acquire, and the result is reused for every client built afterwards.
type Factory struct {
	cfg  *config.Config
	exec *executor.Executor

	// newClient exists as a seam for tests; production code always uses
	// storage.NewS3ClientFromConfig.
	newClient func(awsCfg aws.Config, cfg config.S3Config, bucket string) storage.Client

	mu      sync.Mutex
	awsCfg  *aws.Config
	created int64
}

// NewFactory validates cfg and starts the writer pool. Storage client
// construction is deferred to the first Acquire so credential and region
// problems surface there, before any operation runs.
func NewFactory(ctx context.Context, cfg *config.Config) (*Factory, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	exec := executor.New(ctx, executor.Options{
		Core:          cfg.Writer.CoreSize,
		Max:           cfg.Writer.MaxSize,
		QueueCapacity: cfg.Writer.QueueCapacity,
		KeepAlive:     cfg.Writer.KeepAlive(),
		NamePrefix:    cfg.Writer.NamePrefix,
	})

	return &Factory{
		cfg:       cfg,
		exec:      exec,
		newClient: storage.NewS3ClientFromConfig,
	}, nil
}

// Acquire builds a provider for the calling worker. Every call constructs a
// fresh storage client, so two workers never share one; the caller owns the
// returned provider for the worker's lifetime.
func (f *Factory) Acquire(ctx context.Context) (*Provider, error) {
	awsCfg, err := f.loadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	client := f.newClient(awsCfg, f.cfg.S3, constant.BucketName)

	f.mu.Lock()
	f.created++
	f.mu.Unlock()
	metrics.ClientCreated()

	return &Provider{store: client, exec: f.exec}, nil
}

// ClientsCreated reports how many storage clients this factory has built, one
// per acquired provider.
func (f *Factory) ClientsCreated() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// Executor exposes the shared writer pool, mostly for stats reporting.
func (f *Factory) Executor() *executor.Executor {
	return f.exec
}

// Close flushes pending asynchronous writes and deletes and stops the pool.
func (f *Factory) Close() error {
	return f.exec.Close()
}

func (f *Factory) loadAWSConfig(ctx context.Context) (aws.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.awsCfg != nil {
		return *f.awsCfg, nil
	}

	awsCfg, err := storage.NewAWSConfig(ctx, f.cfg.S3)
	if err != nil {
		return aws.Config{}, err
	}
	f.awsCfg = &awsCfg
	return awsCfg, nil
}

var defaultFactory *Factory

// SetDefaultFactory installs the process wide factory.
func SetDefaultFactory(f *Factory) {
	defaultFactory = f
}

// DefaultFactory returns the process wide factory if one has been installed.
func DefaultFactory() *Factory {
	return defaultFactory
}

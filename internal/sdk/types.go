package sdk

import "context"

// ObjectList is the payload returned by GET /api/objects.
type ObjectList struct {
	Bucket string   `json:"bucket"`
	Count  int      `json:"count"`
	Keys   []string `json:"keys"`
}

// WriterStats reports the counters of the gateway's asynchronous writer pool.
type WriterStats struct {
	Submitted int64 `json:"submitted"`
	Pooled    int64 `json:"pooled"`
	Inline    int64 `json:"inline"`
	Dropped   int64 `json:"dropped"`
	Failed    int64 `json:"failed"`
	Spawned   int64 `json:"spawned"`
	Workers   int   `json:"workers"`
}

// GatewayStats is the payload returned by GET /api/stats.
type GatewayStats struct {
	Bucket         string      `json:"bucket"`
	ClientsCreated int64       `json:"clients_created"`
	Writer         WriterStats `json:"writer"`
}

// IGatewaySDK provides programmatic access to a running s3drop gateway.
type IGatewaySDK interface {
	ListKeys(ctx context.Context) ([]string, error)
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key string, content string) error
	Delete(ctx context.Context, key string) error
	Stats(ctx context.Context) (*GatewayStats, error)
}

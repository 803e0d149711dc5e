package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/s3drop/internal/constant"
	"github.com/xxxsen/s3drop/internal/executor"
	"github.com/xxxsen/s3drop/internal/provider"
	"github.com/xxxsen/s3drop/internal/storage"
)

const maxObjectBytes = 16 << 20

// ServeCommand exposes the bucket over HTTP. Listing and reads answer
// synchronously; writes and deletes are accepted with 202 and finished by
// the writer pool.
type ServeCommand struct {
	factory *provider.Factory
	bind    string

	prov   Provider
	server *http.Server
}

type listPayload struct {
	Bucket string   `json:"bucket"`
	Count  int      `json:"count"`
	Keys   []string `json:"keys"`
}

type statsPayload struct {
	Bucket         string         `json:"bucket"`
	ClientsCreated int64          `json:"clients_created"`
	Writer         executor.Stats `json:"writer"`
}

// NewServeCommand builds the HTTP gateway command listening on bind.
func NewServeCommand(factory *provider.Factory, bind string) *ServeCommand {
	return &ServeCommand{factory: factory, bind: bind}
}

// Run acquires this worker's provider, wires the routes and serves until ctx
// is cancelled.
func (c *ServeCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)

	if c.prov == nil {
		prov, err := c.factory.Acquire(ctx)
		if err != nil {
			return err
		}
		c.prov = prov
	}

	srv := &http.Server{
		Addr:    c.bind,
		Handler: c.routes(),
	}
	c.server = srv

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("gateway ready",
		zap.String("addr", c.bind),
		zap.String("bucket", constant.BucketName))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *ServeCommand) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/objects", c.handleList)
	mux.HandleFunc("/api/stats", c.handleStats)
	mux.HandleFunc("/objects/", c.handleObject)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", c.handleHealth)
	return c.withAccessLog(mux)
}

func (c *ServeCommand) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	keys, err := c.prov.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("list objects failed: %v", err), http.StatusInternalServerError)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(&listPayload{
		Bucket: constant.BucketName,
		Count:  len(keys),
		Keys:   keys,
	})
}

func (c *ServeCommand) handleObject(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/objects/")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		content, err := c.prov.Read(r.Context(), key)
		if err != nil {
			if storage.IsNotFound(err) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, fmt.Sprintf("read object failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, content)
	case http.MethodPut:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxObjectBytes))
		if err != nil {
			http.Error(w, fmt.Sprintf("read body failed: %v", err), http.StatusBadRequest)
			return
		}
		c.prov.Write(r.Context(), key, string(body))
		w.WriteHeader(http.StatusAccepted)
	case http.MethodDelete:
		c.prov.Delete(r.Context(), key)
		w.WriteHeader(http.StatusAccepted)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (c *ServeCommand) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.factory == nil {
		http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(&statsPayload{
		Bucket:         constant.BucketName,
		ClientsCreated: c.factory.ClientsCreated(),
		Writer:         c.factory.Executor().Stats(),
	})
}

func (c *ServeCommand) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (c *ServeCommand) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logutil.GetLogger(r.Context()).Info("http request",
			zap.String("request_id", uuid.NewString()),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("cost", time.Since(start)),
		)
	})
}

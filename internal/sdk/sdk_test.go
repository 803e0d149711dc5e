package sdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
)

// gatewayFixture emulates the REST surface of a running gateway on top of a
// plain map.
type gatewayFixture struct {
	mu      sync.Mutex
	objects map[string]string
}

func newGatewayFixture() *gatewayFixture {
	return &gatewayFixture{objects: make(map[string]string)}
}

func (g *gatewayFixture) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/objects", g.handleList)
	mux.HandleFunc("/api/stats", g.handleStats)
	mux.HandleFunc("/objects/", g.handleObject)
	return mux
}

func (g *gatewayFixture) handleList(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	keys := make([]string, 0, len(g.objects))
	for k := range g.objects {
		keys = append(keys, k)
	}
	g.mu.Unlock()
	sort.Strings(keys)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ObjectList{Bucket: "fixture", Count: len(keys), Keys: keys})
}

func (g *gatewayFixture) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(GatewayStats{
		Bucket:         "fixture",
		ClientsCreated: 2,
		Writer:         WriterStats{Submitted: 5, Pooled: 4, Inline: 1, Workers: 1},
	})
}

func (g *gatewayFixture) handleObject(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/objects/")
	if key == "" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		g.mu.Lock()
		content, ok := g.objects[key]
		g.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(content))
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		g.mu.Lock()
		g.objects[key] = string(body)
		g.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	case http.MethodDelete:
		g.mu.Lock()
		delete(g.objects, key)
		g.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func newTestSDK(t *testing.T) (IGatewaySDK, *gatewayFixture) {
	t.Helper()
	fx := newGatewayFixture()
	srv := httptest.NewServer(fx.handler())
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("init sdk: %v", err)
	}
	return c, fx
}

func TestSDKWriteThenRead(t *testing.T) {
	c, _ := newTestSDK(t)
	ctx := context.Background()

	if err := c.Write(ctx, "notes/hello.txt", "héllo wörld"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := c.Read(ctx, "notes/hello.txt")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "héllo wörld" {
		t.Fatalf("expected content round trip, got %q", got)
	}
}

func TestSDKReadMissingKey(t *testing.T) {
	c, _ := newTestSDK(t)

	_, err := c.Read(context.Background(), "absent.txt")
	if err == nil {
		t.Fatalf("expected error for missing key")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSDKListKeys(t *testing.T) {
	c, fx := newTestSDK(t)
	fx.objects["b.txt"] = "2"
	fx.objects["a.txt"] = "1"
	fx.objects["c.txt"] = "3"

	keys, err := c.ListKeys(context.Background())
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("expected key %q at %d, got %q", k, i, keys[i])
		}
	}
}

func TestSDKDeleteIsIdempotent(t *testing.T) {
	c, _ := newTestSDK(t)
	ctx := context.Background()

	if err := c.Write(ctx, "victim.txt", "bye"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := c.Delete(ctx, "victim.txt"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := c.Delete(ctx, "victim.txt"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := c.Read(ctx, "victim.txt"); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestSDKKeyEscaping(t *testing.T) {
	c, _ := newTestSDK(t)
	ctx := context.Background()

	key := "reports/2024 summary.txt"
	if err := c.Write(ctx, key, "quarterly"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := c.Read(ctx, key)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "quarterly" {
		t.Fatalf("expected content round trip, got %q", got)
	}
}

func TestSDKStats(t *testing.T) {
	c, _ := newTestSDK(t)

	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Bucket != "fixture" {
		t.Fatalf("expected fixture bucket, got %q", stats.Bucket)
	}
	if stats.ClientsCreated != 2 {
		t.Fatalf("expected 2 clients created, got %d", stats.ClientsCreated)
	}
	if stats.Writer.Submitted != 5 || stats.Writer.Inline != 1 {
		t.Fatalf("unexpected writer stats: %+v", stats.Writer)
	}
}

func TestSDKHostValidation(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty host")
	}
	if _, err := New("   "); err == nil {
		t.Fatalf("expected error for blank host")
	}

	fx := newGatewayFixture()
	srv := httptest.NewServer(fx.handler())
	defer srv.Close()

	// trailing slash is tolerated
	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatalf("init sdk: %v", err)
	}
	if _, err := c.ListKeys(context.Background()); err != nil {
		t.Fatalf("list keys: %v", err)
	}
}

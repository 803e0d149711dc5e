package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xxxsen/s3drop/internal/config"
	"github.com/xxxsen/s3drop/internal/constant"
	"github.com/xxxsen/s3drop/internal/provider"
)

func newTestGateway(prov Provider) http.Handler {
	c := &ServeCommand{prov: prov}
	return c.routes()
}

func TestServeListObjects(t *testing.T) {
	t.Parallel()

	prov := newFakeProvider()
	prov.objects["x"] = "1"
	prov.objects["y"] = "2"
	handler := newTestGateway(prov)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/objects", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var payload listPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	assert.Equal(t, constant.BucketName, payload.Bucket)
	assert.Equal(t, 2, payload.Count)
	assert.Equal(t, []string{"x", "y"}, payload.Keys)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/objects", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServeGetObject(t *testing.T) {
	t.Parallel()

	prov := newFakeProvider()
	prov.objects["notes/today.txt"] = "remember the milk"
	handler := newTestGateway(prov)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/objects/notes/today.txt", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	assert.Equal(t, "remember the milk", w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/objects/absent.txt", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServePutObject(t *testing.T) {
	t.Parallel()

	prov := newFakeProvider()
	handler := newTestGateway(prov)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/objects/todo", strings.NewReader("buy coffee")))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "buy coffee", prov.objects["todo"])

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/objects/todo", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "buy coffee", w.Body.String())
}

func TestServeDeleteObject(t *testing.T) {
	t.Parallel()

	prov := newFakeProvider()
	prov.objects["victim"] = "x"
	handler := newTestGateway(prov)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/objects/victim", nil))
		assert.Equal(t, http.StatusAccepted, w.Code)
	}
	assert.NotContains(t, prov.objects, "victim")
}

func TestServeObjectEdgeCases(t *testing.T) {
	t.Parallel()

	handler := newTestGateway(newFakeProvider())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/objects/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/objects/k", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServeStats(t *testing.T) {
	factory, err := provider.NewFactory(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	defer factory.Close()

	c := NewServeCommand(factory, "127.0.0.1:0")
	c.prov = newFakeProvider()
	handler := c.routes()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var payload statsPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	assert.Equal(t, constant.BucketName, payload.Bucket)
	assert.Equal(t, int64(0), payload.ClientsCreated)
}

func TestServeHealthAndMetrics(t *testing.T) {
	t.Parallel()

	handler := newTestGateway(newFakeProvider())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

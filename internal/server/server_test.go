package server

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/easystore"
	"github.com/hupe1980/easystore/disk"
	"github.com/hupe1980/easystore/metric"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg Config, optFns ...Option) (*Server, *disk.MemoryDisk) {
	t.Helper()

	mem := disk.NewMemoryDisk()
	require.NoError(t, mem.Put(context.Background(), "docs/notes.txt", []byte("hello world")))

	registry := disk.NewRegistry(map[string]disk.Disk{"local": mem})
	return New(easystore.New(registry), cfg, optFns...), mem
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, DefaultConfig())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListDisks(t *testing.T) {
	s, _ := newTestServer(t, DefaultConfig())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/disks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Disks []diskInfo `json:"disks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Disks, 1)
	assert.Equal(t, "local", body.Disks[0].Name)
	assert.True(t, body.Disks[0].Default)
	assert.Contains(t, body.Disks[0].Capabilities, disk.OpSetMetadata)
	assert.NotContains(t, body.Disks[0].Capabilities, disk.OpURL)
}

func TestDownload(t *testing.T) {
	s, _ := newTestServer(t, DefaultConfig())

	t.Run("Found", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/files/local/docs/notes.txt", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello world", rec.Body.String())
		assert.Equal(t, `attachment; filename=notes.txt`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("Missing", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/files/local/docs/missing.txt", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not found")
	})

	t.Run("UnknownDisk", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/files/nope/docs/notes.txt", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "nope")
	})
}

func TestDownload_Gzip(t *testing.T) {
	s, mem := newTestServer(t, DefaultConfig())
	content := strings.Repeat("compressible line\n", 512)
	require.NoError(t, mem.Put(context.Background(), "big.txt", []byte(content)))

	req := httptest.NewRequest(http.MethodGet, "/files/local/big.txt", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t, DefaultConfig())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = serve(s, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestsPerSecond = 0.001
	cfg.Burst = 1
	s, _ := newTestServer(t, cfg)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, _ := newTestServer(t, DefaultConfig(), WithMetrics(metric.NewPrometheus(reg), reg))

	serve(s, httptest.NewRequest(http.MethodGet, "/files/local/docs/notes.txt", nil))

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `easystore_http_requests_total{method="GET",path="/files/:disk/*path",status="200"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(&easystore.NotFoundError{Disk: "local", Path: "a"}))
	assert.Equal(t, http.StatusNotFound, statusFor(&easystore.UnknownDiskError{Disk: "x"}))
	assert.Equal(t, http.StatusNotImplemented, statusFor(&easystore.UnsupportedOperationError{Disk: "x", Op: disk.OpURL}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func TestRun_Shutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	s, _ := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package api

import (
	"ChintuIdrive/server-surveillance/collector"
	"ChintuIdrive/server-surveillance/conf"
	"ChintuIdrive/server-surveillance/dto"
	"ChintuIdrive/server-surveillance/monitor"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type fakeSource struct {
	mu     sync.Mutex
	sample dto.Sample
	err    error
}

func (fs *fakeSource) Read(context.Context) (dto.Sample, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.sample, fs.err
}

type fakeHostSource struct {
	fakeSource
	info dto.HostInfo
}

func (fh *fakeHostSource) HostInfo(context.Context) (dto.HostInfo, error) {
	return fh.info, nil
}

var sampleAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T, src collector.MetricSource) (*gin.Engine, *monitor.Monitor) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := monitor.New(monitor.Settings{Threshold: 80, HistorySize: 10, CheckInterval: time.Hour}, src, nil)
	if err != nil {
		t.Fatalf("monitor.New: %v", err)
	}
	t.Cleanup(func() {
		m.Stop()
		m.Wait()
	})

	rl := NewRateLimiter(rate.Inf, 1)
	t.Cleanup(rl.Stop)
	return NewRouter(conf.GetDefaultConfig(), m, rl), m
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestCurrentMetrics(t *testing.T) {
	src := &fakeSource{sample: dto.Sample{Timestamp: sampleAt, CPU: 12.5, RAM: 40, Disk: 70}}
	router, _ := setupTestRouter(t, src)

	w := do(router, http.MethodGet, "/api/v1/metrics/current", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got := decode[dto.Sample](t, w)
	if got.CPU != 12.5 || got.RAM != 40 || got.Disk != 70 {
		t.Errorf("sample = %+v", got)
	}

	src.mu.Lock()
	src.err = errors.New("proc unavailable")
	src.mu.Unlock()
	if w := do(router, http.MethodGet, "/api/v1/metrics/current", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 on read failure, got %d", w.Code)
	}
}

func TestHistoryAndAlerts(t *testing.T) {
	src := &fakeSource{sample: dto.Sample{Timestamp: sampleAt, CPU: 95, RAM: 10, Disk: 10}}
	router, m := setupTestRouter(t, src)

	for i := 0; i < 2; i++ {
		if err := m.Tick(context.Background()); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}

	history := decode[dto.HistorySnapshot](t, do(router, http.MethodGet, "/api/v1/metrics/history", ""))
	if history.Len() != 2 || history.CPU[1] != 95 {
		t.Errorf("history = %+v", history)
	}

	alerts := decode[[]dto.Alert](t, do(router, http.MethodGet, "/api/v1/alerts", ""))
	if len(alerts) != 2 || alerts[0].Metric != dto.CPUMetric {
		t.Fatalf("alerts = %+v", alerts)
	}

	w := do(router, http.MethodGet, "/api/v1/alerts", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("second drain = %s, want []", w.Body.String())
	}
}

func TestThreshold(t *testing.T) {
	router, m := setupTestRouter(t, &fakeSource{})

	got := decode[ThresholdResponse](t, do(router, http.MethodGet, "/api/v1/threshold", ""))
	if got.Threshold != 80 {
		t.Errorf("threshold = %v, want 80", got.Threshold)
	}

	tests := []struct {
		body     string
		wantCode int
		want     float64
	}{
		{`{"threshold": 55.5}`, http.StatusOK, 55.5},
		{`{"threshold": 0}`, http.StatusOK, 0},
		{`{"threshold": 100}`, http.StatusOK, 100},
		{`{"threshold": 150}`, http.StatusBadRequest, 100},
		{`{"threshold": -1}`, http.StatusBadRequest, 100},
		{`{}`, http.StatusBadRequest, 100},
		{`not json`, http.StatusBadRequest, 100},
	}
	for _, tt := range tests {
		w := do(router, http.MethodPut, "/api/v1/threshold", tt.body)
		if w.Code != tt.wantCode {
			t.Errorf("PUT %s: code = %d, want %d", tt.body, w.Code, tt.wantCode)
		}
		if m.Threshold() != tt.want {
			t.Errorf("PUT %s: threshold = %v, want %v", tt.body, m.Threshold(), tt.want)
		}
	}
}

func TestMonitorControl(t *testing.T) {
	router, m := setupTestRouter(t, &fakeSource{sample: dto.Sample{Timestamp: sampleAt}})

	status := decode[dto.MonitorStatus](t, do(router, http.MethodGet, "/api/v1/monitor/status", ""))
	if status.Running {
		t.Error("monitor running before start")
	}

	status = decode[dto.MonitorStatus](t, do(router, http.MethodPost, "/api/v1/monitor/start", ""))
	if !status.Running || !m.Running() {
		t.Error("monitor not running after start")
	}

	status = decode[dto.MonitorStatus](t, do(router, http.MethodPost, "/api/v1/monitor/stop", ""))
	if status.Running || m.Running() {
		t.Error("monitor running after stop")
	}
	if status.HistoryCapacity != 10 || status.Threshold != 80 {
		t.Errorf("status = %+v", status)
	}
}

func TestHost(t *testing.T) {
	src := &fakeHostSource{info: dto.HostInfo{PhysicalCores: 4, LogicalCores: 8, Disk: dto.DiskStats{Path: "/"}}}
	router, _ := setupTestRouter(t, src)

	w := do(router, http.MethodGet, "/api/v1/host", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	info := decode[dto.HostInfo](t, w)
	if info.PhysicalCores != 4 || info.LogicalCores != 8 {
		t.Errorf("host = %+v", info)
	}

	plain, _ := setupTestRouter(t, &fakeSource{})
	if w := do(plain, http.MethodGet, "/api/v1/host", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without host source, got %d", w.Code)
	}
}

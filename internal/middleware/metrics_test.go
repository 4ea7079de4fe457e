package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// mockMetricsRecorder はHTTPMetricsRecorderのモック実装。
type mockMetricsRecorder struct {
	statuses  []int
	latencies []time.Duration
}

func (m *mockMetricsRecorder) RecordHTTPStatus(statusCode int) {
	m.statuses = append(m.statuses, statusCode)
}

func (m *mockMetricsRecorder) RecordRequestLatency(duration time.Duration) {
	m.latencies = append(m.latencies, duration)
}

func TestMetricsMiddleware_RecordsStatusAndLatency(t *testing.T) {
	recorder := &mockMetricsRecorder{}

	handler := NewMetricsMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/leads/missing", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusNotFound {
		t.Errorf("statuses = %v, want [404]", recorder.statuses)
	}
	if len(recorder.latencies) != 1 {
		t.Errorf("len(latencies) = %d, want 1", len(recorder.latencies))
	}
}

func TestMetricsMiddleware_DefaultStatus200(t *testing.T) {
	recorder := &mockMetricsRecorder{}

	// WriteHeaderを呼ばないハンドラーは200として記録される
	handler := NewMetricsMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusOK {
		t.Errorf("statuses = %v, want [200]", recorder.statuses)
	}
}

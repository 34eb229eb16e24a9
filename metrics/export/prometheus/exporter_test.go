package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"

	goSession "github.com/MrEthical07/goSession"
)

type fakeSource struct {
	snapshot goSession.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goSession.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                       { return f.dropped }

func scrape(t *testing.T, exp *PrometheusExporter) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestScrapeIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters: map[goSession.MetricID]uint64{
				goSession.MetricLoginSuccess: 7,
			},
			Histograms: map[goSession.MetricID][]uint64{
				goSession.MetricValidateLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := scrape(t, exp)
	if !strings.Contains(out, "gosession_login_success_total 7") {
		t.Fatalf("expected login_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gosession_validate_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gosession_validate_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gosession_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestScrapeEmitsZeroValuedCounters(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters:   map[goSession.MetricID]uint64{},
			Histograms: map[goSession.MetricID][]uint64{},
		},
	})

	out := scrape(t, exp)
	if !strings.Contains(out, "gosession_refresh_revoked_total 0") {
		t.Fatalf("expected zero-valued counter in output, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters:   map[goSession.MetricID]uint64{goSession.MetricLoginSuccess: 1},
			Histograms: map[goSession.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkCollect(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters: map[goSession.MetricID]uint64{
				goSession.MetricLoginSuccess:       1000,
				goSession.MetricLoginFailure:       40,
				goSession.MetricRefreshSuccess:     800,
				goSession.MetricRefreshFailure:     10,
				goSession.MetricSessionCreated:     800,
				goSession.MetricSessionInvalidated: 20,
				goSession.MetricRefreshRevoked:     3,
			},
			Histograms: map[goSession.MetricID][]uint64{
				goSession.MetricValidateLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
		dropped: 0,
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		metrics := make(chan prom.Metric, 32)
		go func() {
			exp.Collect(metrics)
			close(metrics)
		}()
		for range metrics {
		}
	}
}

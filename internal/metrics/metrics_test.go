package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func checkCounter(t *testing.T, name string, c prometheus.Collector, want float64) {
	t.Helper()
	if got := testutil.ToFloat64(c); got != want {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestRecordExtraction(t *testing.T) {
	m := New()

	m.RecordExtraction(ResultOK, 3, 7, 20*time.Millisecond)
	m.RecordExtraction(ResultInvalidInput, 0, 0, time.Millisecond)

	checkCounter(t, "extractions ok", m.ExtractionsTotal.WithLabelValues(ResultOK), 1)
	checkCounter(t, "extractions invalid", m.ExtractionsTotal.WithLabelValues(ResultInvalidInput), 1)
	checkCounter(t, "matches", m.MatchesTotal, 7)
	checkCounter(t, "pages scanned", m.PagesScannedTotal, 3)
}

func TestRecordInferenceAndExport(t *testing.T) {
	m := New()

	m.RecordInference("structural")
	m.RecordInference("structural")
	m.RecordExport(true)
	m.RecordExport(false)

	checkCounter(t, "structural inferences", m.InferencesTotal.WithLabelValues("structural"), 2)
	checkCounter(t, "exports with context", m.ExportsTotal.WithLabelValues("with"), 1)
	checkCounter(t, "exports without context", m.ExportsTotal.WithLabelValues("without"), 1)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RecordExtraction(ResultOK, 1, 1, time.Second)
	m.RecordInference("affix")
	m.RecordExport(true)
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordExtraction(ResultOK, 1, 2, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`texthunter_extractions_total{result="ok"} 1`,
		"texthunter_matches_total 2",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition lacks %q", want)
		}
	}
}

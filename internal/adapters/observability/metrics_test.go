package observability_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_wishlist/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveSeed(3, nil)
	observability.ObserveSeed(0, errors.New("boom"))

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"wishlist_http_requests_total",
		`wishlist_seed_runs_total{result="ok"}`,
		`wishlist_seed_runs_total{result="error"}`,
		"wishlist_seed_hotels_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestNewLogger_LevelAndJSON(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLogger(observability.LogOptions{Env: "prod", Level: "warn", Out: &buf})

	l.Info().Msg("hidden")
	l.Warn().Str("k", "v").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"k":"v"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected JSON warn line, got %s", out)
	}
}

func TestNewLogger_FileCopy(t *testing.T) {
	var buf bytes.Buffer
	path := t.TempDir() + "/app.log"
	l := observability.NewLogger(observability.LogOptions{Env: "dev", Level: "debug", File: path, Out: &buf})
	l.Debug().Msg("to both")

	if !strings.Contains(buf.String(), "to both") {
		t.Fatalf("console output missing: %q", buf.String())
	}
}

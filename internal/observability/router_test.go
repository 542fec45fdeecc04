package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/trackerlink/internal/testutil/testlog"
)

func TestRouterServesMetrics(t *testing.T) {
	testlog.Start(t)
	rec := NewRecorder()
	rec.RecordDecode("control", "IN", "HID_CTRL_IN_ACK_RESPONSE", false, nil, time.Microsecond)

	var logs bytes.Buffer
	r := Router(rec, zerolog.New(&logs).Level(zerolog.DebugLevel))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := `trackerlink_codec_frames_total{channel="control",direction="IN",outcome="decoded"} 1`
	if !strings.Contains(w.Body.String(), want) {
		t.Fatalf("expected %s in:\n%s", want, w.Body.String())
	}
	if !strings.Contains(logs.String(), `"route":"/metrics"`) {
		t.Fatalf("expected scrape to be logged, got %q", logs.String())
	}
}

func TestRouterHealthAndMissingRoute(t *testing.T) {
	testlog.Start(t)
	var logs bytes.Buffer
	r := Router(NewRecorder(), zerolog.New(&logs))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for POST /metrics, got %d", w.Code)
	}
	if !strings.Contains(logs.String(), `"level":"warn"`) {
		t.Fatalf("expected warn log for missing route, got %q", logs.String())
	}
}

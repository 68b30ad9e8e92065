package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/smazurov/snapcam/internal/events"
)

func TestRecordSuccess(t *testing.T) {
	before := testutil.ToFloat64(capturesTotal.WithLabelValues("video", "ok"))

	RecordSuccess("video", 98, 19.6, 5.2)

	if got := testutil.ToFloat64(capturesTotal.WithLabelValues("video", "ok")); got != before+1 {
		t.Errorf("captures total = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(captureFrames.WithLabelValues("video")); got != 98 {
		t.Errorf("last frames = %v, want 98", got)
	}
	if got := testutil.ToFloat64(videoFPS); got != 19.6 {
		t.Errorf("last fps = %v, want 19.6", got)
	}
}

func TestRecordSuccessPhotoKeepsVideoFPS(t *testing.T) {
	RecordSuccess("video", 100, 20, 5)
	RecordSuccess("photo", 30, 0, 1)

	if got := testutil.ToFloat64(videoFPS); got != 20 {
		t.Errorf("last fps = %v, want 20 after a photo", got)
	}
}

func TestRecordError(t *testing.T) {
	before := testutil.ToFloat64(capturesTotal.WithLabelValues("photo", "device_unavailable"))

	RecordError("photo", "device_unavailable", 0.01)

	if got := testutil.ToFloat64(capturesTotal.WithLabelValues("photo", "device_unavailable")); got != before+1 {
		t.Errorf("captures total = %v, want %v", got, before+1)
	}
}

func TestSubscribe(t *testing.T) {
	bus := events.New()
	unsub := Subscribe(bus)
	defer unsub()

	deniedBefore := testutil.ToFloat64(accessDenied)
	bus.Publish(events.AccessDeniedEvent{UserID: "42", Command: "/photo"})
	bus.Publish(events.AllowListReloadedEvent{Users: 3})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(accessDenied) == deniedBefore+1 && testutil.ToFloat64(allowedUsers) == 3 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("access denied = %v, allowed users = %v", testutil.ToFloat64(accessDenied), testutil.ToFloat64(allowedUsers))
}

func TestHandler(t *testing.T) {
	RecordStarted("photo")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "snapcam_capture_started_total") {
		t.Error("expected snapcam metrics in response")
	}
}

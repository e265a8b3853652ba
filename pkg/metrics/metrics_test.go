package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestManagerScrape(t *testing.T) {
	m := NewManager(WithRegistry(prometheus.NewRegistry()))

	m.submissionsReceived.Inc()
	m.eventsPersisted.Inc()
	m.connectedChannels.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"jolt_potholes_submissions_received_total 1",
		"jolt_potholes_events_persisted_total 1",
		"jolt_potholes_connected_channels 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestGlobalHelpers(t *testing.T) {
	// Must not panic; the global manager is wired in init.
	RecordSubmissionReceived()
	RecordEventPersisted()
	RecordPersistFailure()
	RecordBroadcastSent()
	RecordBroadcastDrop()
	UpdateConnectedChannels(2)
	UpdateStoredEvents(10)
	RecordHTTPRequest("events", http.MethodGet, "200")
	RecordHTTPRequestDuration("events", http.MethodGet, "200", 1.2)
}

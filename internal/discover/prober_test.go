package discover

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func init() {
	// Disable retry sleep in all tests for fast execution
	probeSleepFunc = func(d time.Duration) {}
}

func newTestProber() *Prober {
	return NewProber(5*time.Second, 8, "Yojana/test", "", "", "")
}

func TestProber_ProbeSingle_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("Expected HEAD request, got %s", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); ua != "Yojana/test" {
			t.Errorf("Expected user agent to be sent, got %q", ua)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2023 15:04:05 GMT")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := newTestProber().probeSingle(context.Background(), Link{URL: server.URL + "/a.pdf"})

	if !result.Reachable {
		t.Error("Expected link to be reachable")
	}
	if result.Dead {
		t.Error("Expected link not to be dead")
	}
	if result.ContentType != "application/pdf" {
		t.Errorf("Expected content type application/pdf, got %q", result.ContentType)
	}
	if result.LastModified == nil {
		t.Error("Expected Last-Modified to be parsed")
	}
	if result.Official {
		t.Error("Expected loopback host not to be official")
	}
}

func TestProber_ProbeSingle_404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result := newTestProber().probeSingle(context.Background(), Link{URL: server.URL})

	if result.Reachable {
		t.Error("Expected 404 link not to be reachable")
	}
	if !result.Dead {
		t.Error("Expected 404 link to be marked as dead")
	}
	if result.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status code 404, got %d", result.StatusCode)
	}
}

func TestProber_ProbeSingle_Redirect(t *testing.T) {
	finalServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer finalServer.Close()

	redirectServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, finalServer.URL, http.StatusMovedPermanently)
	}))
	defer redirectServer.Close()

	result := newTestProber().probeSingle(context.Background(), Link{URL: redirectServer.URL})

	if !result.Reachable {
		t.Error("Expected redirected link to be reachable")
	}
	if result.RedirectURL != finalServer.URL {
		t.Errorf("Expected redirect to %s, got %s", finalServer.URL, result.RedirectURL)
	}
}

func TestProber_Probe_PreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.pdf" {
			w.WriteHeader(http.StatusGone)
			return
		}
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	links := []Link{
		{URL: server.URL + "/a.pdf", FileName: "a.pdf"},
		{URL: server.URL + "/missing.pdf", FileName: "missing.pdf"},
		{URL: server.URL + "/c.pdf", FileName: "c.pdf"},
	}

	results := newTestProber().Probe(context.Background(), links)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Link.URL != links[i].URL {
			t.Errorf("result %d is for %s, want %s", i, r.Link.URL, links[i].URL)
		}
	}

	reachable := Reachable(results)
	if len(reachable) != 2 || reachable[0].FileName != "a.pdf" || reachable[1].FileName != "c.pdf" {
		t.Errorf("Expected a.pdf and c.pdf reachable, got %v", reachable)
	}
}

func TestProber_Probe_Empty(t *testing.T) {
	results := newTestProber().Probe(context.Background(), nil)
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty non-nil results, got %v", results)
	}
}

func TestProber_Probe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prober := NewProber(time.Second, 1, "Yojana/test", "", "", "")
	results := prober.Probe(ctx, []Link{{URL: "http://127.0.0.1:1/a.pdf"}})

	if results[0].Reachable {
		t.Error("Expected cancelled probe not to be reachable")
	}
	if results[0].Error == "" {
		t.Error("Expected an error for cancelled probe")
	}
}

func TestProber_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := newTestProber().probeWithRetry(context.Background(), Link{URL: server.URL})

	if !result.Reachable {
		t.Errorf("Expected success after retries, got status %d", result.StatusCode)
	}
	if hits.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", hits.Load())
	}
}

func TestProber_DoesNotRetryNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	newTestProber().probeWithRetry(context.Background(), Link{URL: server.URL})

	if hits.Load() != 1 {
		t.Errorf("Expected 1 attempt for 404, got %d", hits.Load())
	}
}

func TestSourceClassifier_IsOfficial(t *testing.T) {
	classifier := NewSourceClassifier(nil)

	tests := []struct {
		url      string
		expected bool
	}{
		{"https://agriwelfare.gov.in/Documents/a.pdf", true},
		{"https://pmkisan.gov.in/", true},
		{"https://krishi.nic.in/x.pdf", true},
		{"https://www.usda.gov/file.pdf", true},
		{"https://example.com/a.pdf", false},
		{"https://notgov.in.example.com/a.pdf", false},
		{"://broken", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := classifier.IsOfficial(tt.url); got != tt.expected {
				t.Errorf("IsOfficial(%s) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

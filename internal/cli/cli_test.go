package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/yojana/internal/discover"
	"github.com/ppiankov/yojana/internal/logging"
	"github.com/ppiankov/yojana/internal/model"
	"github.com/ppiankov/yojana/internal/pipeline"
)

func TestTargetLanguages(t *testing.T) {
	cfg := model.DefaultConfig()

	all, err := targetLanguages(cfg, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(all) != len(cfg.Languages) {
		t.Errorf("Expected all %d configured languages, got %d", len(cfg.Languages), len(all))
	}

	picked, err := targetLanguages(cfg, []string{" MR "})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(picked) != 1 || picked[0].Code != "mr" || picked[0].Name != "marathi" {
		t.Errorf("Unexpected languages %+v", picked)
	}

	if _, err := targetLanguages(cfg, []string{"fr"}); err == nil {
		t.Error("Expected error for unconfigured language")
	}

	cfg.Languages = nil
	if _, err := targetLanguages(cfg, nil); err == nil {
		t.Error("Expected error when no languages are configured")
	}
}

func TestLoadConfig_ProviderEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("INDIC_TRANS_API_KEY", "indic-key")
	t.Setenv("INDIC_TRANS_API_URL", "https://indic.example/translate")
	viper.Set("translate.general", "openai")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Translate.APIKey != "sk-test" {
		t.Errorf("Expected OpenAI key from env, got %q", cfg.Translate.APIKey)
	}
	if cfg.Translate.IndicAPIKey != "indic-key" || cfg.Translate.IndicURL != "https://indic.example/translate" {
		t.Errorf("IndicTrans settings not mapped: %+v", cfg.Translate)
	}
	if cfg.Translate.MaxAttempts != 3 {
		t.Errorf("Expected defaults to survive unmarshal, got max_attempts=%d", cfg.Translate.MaxAttempts)
	}
}

func TestIsDirectPDF(t *testing.T) {
	tests := []struct {
		url  string
		want bool
		name string
	}{
		{"https://example.gov.in/docs/PM%20Kisan.pdf", true, "PM Kisan.pdf"},
		{"https://example.gov.in/docs/scheme.PDF?v=2", true, "scheme.PDF"},
		{"https://example.gov.in/en/Major", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := isDirectPDF(tt.url); got != tt.want {
				t.Errorf("isDirectPDF() = %v, want %v", got, tt.want)
			}
			if tt.want {
				if got := pdfFileName(tt.url); got != tt.name {
					t.Errorf("pdfFileName() = %q, want %q", got, tt.name)
				}
			}
		})
	}
}

func TestLooksLikePDF(t *testing.T) {
	if !looksLikePDF([]byte("%PDF-1.7\n...")) {
		t.Error("Expected PDF header to be recognised")
	}
	if !looksLikePDF([]byte("\xef\xbb\xbf%PDF-1.4")) {
		t.Error("Expected header after leading bytes to be recognised")
	}
	if looksLikePDF([]byte("<html><body>Not found</body></html>")) {
		t.Error("Expected HTML to be rejected")
	}
}

func TestFieldMarks(t *testing.T) {
	name := "PM-KISAN"
	marks := fieldMarks(model.SchemeRecord{SchemeName: &name})

	if !strings.HasPrefix(marks, "name "+okMark) {
		t.Errorf("Expected name to be marked present: %q", marks)
	}
	if !strings.Contains(marks, "elig "+failMark) {
		t.Errorf("Expected eligibility to be marked absent: %q", marks)
	}
}

func TestFetcher_DiscoverAndDownload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/schemes", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<a href="/files/pm-kisan.pdf">PM-KISAN</a>
			<a href="/files/pm-kisan.pdf">duplicate</a>
			<a href="/files/broken.pdf">Broken</a>
			<a href="/about">About</a>
		</body></html>`))
	})
	mux.HandleFunc("/files/pm-kisan.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4\n%test"))
	})
	mux.HandleFunc("/files/broken.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>moved</html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Fetch.RespectRobots = false
	cfg.Fetch.RequestsPerSecond = 1000
	cfg.Fetch.BurstSize = 10
	cfg.Fetch.BaseDelay = time.Millisecond
	cfg.HTTP.Timeout = 5 * time.Second

	f := newFetcher(cfg, logging.Nop())
	summary := &model.RunSummary{}
	ctx := context.Background()

	links := f.discover(ctx, []string{server.URL + "/schemes"}, summary)
	if len(links) != 2 {
		t.Fatalf("Expected 2 unique PDF links, got %d: %+v", len(links), links)
	}

	dir := t.TempDir()
	store := pipeline.NewDirStore(dir)

	if err := f.download(ctx, store, links[0]); err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "pm-kisan.pdf")); err != nil {
		t.Errorf("Expected saved PDF: %v", err)
	}

	if err := f.download(ctx, store, discover.Link{URL: server.URL + "/files/broken.pdf", FileName: "broken.pdf"}); err == nil {
		t.Error("Expected non-PDF body to be rejected")
	}
}

func TestFetcher_RobotsDisallowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	mux.HandleFunc("/private/list", func(w http.ResponseWriter, r *http.Request) {
		t.Error("Disallowed page must not be fetched")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Fetch.RequestsPerSecond = 1000

	f := newFetcher(cfg, logging.Nop())
	summary := &model.RunSummary{}

	links := f.discover(context.Background(), []string{server.URL + "/private/list"}, summary)
	if len(links) != 0 {
		t.Errorf("Expected no links, got %d", len(links))
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Stage != model.StageFetch {
		t.Errorf("Expected one fetch failure, got %+v", summary.Failures)
	}
}

func TestFetcher_RobotsAppliesToDirectPDFs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Fetch.RequestsPerSecond = 1000

	f := newFetcher(cfg, logging.Nop())
	summary := &model.RunSummary{}

	links := f.discover(context.Background(), []string{
		server.URL + "/private/hidden.pdf",
		server.URL + "/public/open.pdf",
	}, summary)

	if len(links) != 1 || links[0].FileName != "open.pdf" {
		t.Errorf("Expected only the allowed PDF, got %+v", links)
	}
	if len(summary.Failures) != 1 || !strings.HasSuffix(summary.Failures[0].Document, "/private/hidden.pdf") {
		t.Errorf("Expected the disallowed PDF to be recorded, got %+v", summary.Failures)
	}
}

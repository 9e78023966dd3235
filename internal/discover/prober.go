package discover

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/yojana/internal/util"
)

const probeMaxRetries = 3

// probeSleepFunc is the sleep function used between retries (injectable for tests)
var probeSleepFunc = time.Sleep

// ProbeResult is the outcome of a HEAD check on a discovered link
type ProbeResult struct {
	Link          Link       `json:"link"`
	StatusCode    int        `json:"status_code,omitempty"`
	Reachable     bool       `json:"reachable"`
	Dead          bool       `json:"dead"`
	Official      bool       `json:"official"`
	RedirectURL   string     `json:"redirect_url,omitempty"`
	ContentType   string     `json:"content_type,omitempty"`
	ContentLength int64      `json:"content_length,omitempty"`
	LastModified  *time.Time `json:"last_modified,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// Prober checks discovered links concurrently before download
type Prober struct {
	httpClient *http.Client
	maxWorkers int
	userAgent  string
	official   *SourceClassifier
}

// NewProber creates a new prober
func NewProber(timeout time.Duration, maxWorkers int, userAgent string, httpProxy, httpsProxy, noProxy string) *Prober {
	if maxWorkers <= 0 {
		maxWorkers = 8
	}

	proxyFunc := util.NewProxyFunc(httpProxy, httpsProxy, noProxy)

	return &Prober{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: proxyFunc,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		maxWorkers: maxWorkers,
		userAgent:  userAgent,
		official:   NewSourceClassifier(nil),
	}
}

// Probe checks all links concurrently; results are in input order
func (p *Prober) Probe(ctx context.Context, links []Link) []ProbeResult {
	if len(links) == 0 {
		return []ProbeResult{}
	}

	results := make([]ProbeResult, len(links))
	var wg sync.WaitGroup

	// Semaphore limits concurrent requests
	semaphore := make(chan struct{}, p.maxWorkers)

	for i, link := range links {
		wg.Add(1)
		go func(idx int, l Link) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = ProbeResult{Link: l, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = p.probeWithRetry(ctx, l)
		}(i, link)
	}

	wg.Wait()

	return results
}

// Reachable returns the links whose probe succeeded
func Reachable(results []ProbeResult) []Link {
	var links []Link
	for _, r := range results {
		if r.Reachable {
			links = append(links, r.Link)
		}
	}
	return links
}

// probeSingle issues one HEAD request
func (p *Prober) probeSingle(ctx context.Context, link Link) ProbeResult {
	result := ProbeResult{
		Link:     link,
		Official: p.official.IsOfficial(link.URL),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link.URL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		result.Dead = true
		return result
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.Dead = true
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.ContentType = resp.Header.Get("Content-Type")
	result.ContentLength = resp.ContentLength

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Reachable = true
	} else if resp.StatusCode == 404 || resp.StatusCode == 410 {
		result.Dead = true
	}

	if resp.Request.URL.String() != link.URL {
		result.RedirectURL = resp.Request.URL.String()
	}

	if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		if t, err := time.Parse(time.RFC1123, lastModified); err == nil {
			result.LastModified = &t
		}
	}

	return result
}

// probeWithRetry retries transient failures with exponential backoff
func (p *Prober) probeWithRetry(ctx context.Context, link Link) ProbeResult {
	var result ProbeResult
	for attempt := 0; attempt < probeMaxRetries; attempt++ {
		result = p.probeSingle(ctx, link)
		if !isRetryableProbe(result) {
			return result
		}
		if attempt < probeMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			probeSleepFunc(backoff)
		}
	}
	return result
}

// isRetryableProbe returns true for results that indicate transient failures
func isRetryableProbe(result ProbeResult) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.Error != "" {
		s := strings.ToLower(result.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}

// SourceClassifier recognises official government hosts
type SourceClassifier struct {
	suffixes []string
}

// DefaultOfficialSuffixes are the host suffixes of Indian government sites
var DefaultOfficialSuffixes = []string{"gov.in", "nic.in", "gov"}

// NewSourceClassifier creates a classifier; nil suffixes selects the defaults
func NewSourceClassifier(suffixes []string) *SourceClassifier {
	if suffixes == nil {
		suffixes = DefaultOfficialSuffixes
	}
	return &SourceClassifier{suffixes: suffixes}
}

// IsOfficial checks whether the URL is hosted on a government domain
func (c *SourceClassifier) IsOfficial(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	for _, suffix := range c.suffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/ppiankov/yojana/internal/logging"
	"github.com/ppiankov/yojana/internal/util"
)

const fetchMaxAttempts = 3

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// ErrInvalidRequest marks failures that happen before anything is sent
var ErrInvalidRequest = errors.New("invalid request")

// StatusError is a response outside the 2xx range
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.StatusCode, e.Status)
}

// FetchError is returned once every attempt for a URL has failed
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: giving up after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RateLimiter paces requests per target
type RateLimiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Fetcher retrieves documents over HTTP
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	baseDelay  time.Duration
	limiter    RateLimiter
	logger     *logging.Logger
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, baseDelay time.Duration, httpProxy, httpsProxy, noProxy string) *Fetcher {
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		baseDelay: baseDelay,
		logger:    logging.Nop(),
	}
}

// WithLimiter paces every attempt through the limiter
func (f *Fetcher) WithLimiter(l RateLimiter) *Fetcher {
	f.limiter = l
	return f
}

// WithLogger sets the logger used for retry diagnostics
func (f *Fetcher) WithLogger(l *logging.Logger) *Fetcher {
	if l != nil {
		f.logger = l.With("fetcher")
	}
	return f
}

// FetchResult contains the fetched body and metadata
type FetchResult struct {
	Body         []byte
	StatusCode   int
	ContentType  string
	LastModified string
	FinalURL     string
	FileName     string
}

// Text returns the body as a string
func (r *FetchResult) Text() string {
	return string(r.Body)
}

// Fetch performs a single GET of the given URL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf,text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	// Read body with size limit
	var reader io.Reader = resp.Body
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()

	return &FetchResult{
		Body:         body,
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		FinalURL:     finalURL,
		FileName:     fileNameFromURL(finalURL),
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff.
// Delays are baseDelay * 2^attempt and are only slept between attempts.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt < fetchMaxAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, rawURL); err != nil {
				lastErr = fmt.Errorf("rate limit: %w", err)
				break
			}
		}

		attempts++
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || ctx.Err() != nil {
			break
		}

		if attempt < fetchMaxAttempts-1 {
			backoff := f.baseDelay * time.Duration(1<<uint(attempt))
			f.logger.Warn().
				Str("url", rawURL).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Err(err).
				Msg("fetch failed, retrying")
			fetchSleepFunc(backoff)
		}
	}

	return nil, &FetchError{URL: rawURL, Attempts: attempts, Err: lastErr}
}

// isRetryableFetchError reports whether another attempt could succeed.
// Every transport failure and every non-2xx status qualifies; malformed
// requests never do.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrInvalidRequest)
}

// fileNameFromURL returns the unescaped last path segment of the URL
func fileNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

package worker

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces requests per host. Every host starts at the default rate;
// robots.txt Crawl-delay and configured overrides can only slow a host down
// or set it explicitly.
type Limiter struct {
	mu           sync.Mutex
	hosts        map[string]*rate.Limiter
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter; requestsPerSecond <= 0 means unlimited
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Limiter{
		hosts:        make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until the host of rawURL may be contacted again
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := extractDomain(rawURL)
	if err != nil {
		return err
	}
	return l.bucket(host).Wait(ctx)
}

func (l *Limiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.hosts[host]
	if !ok {
		b = rate.NewLimiter(l.defaultRate, l.defaultBurst)
		l.hosts[host] = b
	}
	return b
}

// SetDomainRate pins a host to an explicit rate (fetch.domain_rates)
func (l *Limiter) SetDomainRate(domain string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.hosts[strings.ToLower(domain)] = rate.NewLimiter(limit, burst)
}

// SetCrawlDelay slows a host to one request per delay unless it is already slower
func (l *Limiter) SetCrawlDelay(domain string, delay time.Duration) {
	if delay <= 0 {
		return
	}
	domain = strings.ToLower(domain)
	limit := rate.Every(delay)

	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.defaultRate
	if b, ok := l.hosts[domain]; ok {
		current = b.Limit()
	}
	if current <= limit {
		return
	}
	l.hosts[domain] = rate.NewLimiter(limit, 1)
}

// extractDomain returns the lower-cased host of rawURL without its port
func extractDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}
	return strings.ToLower(u.Hostname()), nil
}

package discover

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Link is a document referenced from a listing page
type Link struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	FileName string `json:"file_name"`
}

// LinkExtractor finds PDF links on listing pages
type LinkExtractor struct {
	registry *Registry
}

// NewLinkExtractor creates a link extractor with the built-in adapters
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{registry: NewRegistry()}
}

// NewLinkExtractorWith creates a link extractor over a custom registry
func NewLinkExtractorWith(registry *Registry) *LinkExtractor {
	return &LinkExtractor{registry: registry}
}

// ExtractPDFLinks returns every link whose path ends in .pdf (case-insensitive),
// resolved against sourceURL and deduplicated in document order
func (e *LinkExtractor) ExtractPDFLinks(htmlContent string, sourceURL string) ([]Link, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	baseURL, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	adapter := e.registry.FindAdapter(sourceURL)

	var pdfs []Link
	for _, link := range adapter.ExtractLinks(doc, baseURL) {
		if isPDFLink(link.URL) {
			pdfs = append(pdfs, link)
		}
	}

	return dedupeLinks(pdfs), nil
}

// AdapterFor reports which adapter handles the listing URL
func (e *LinkExtractor) AdapterFor(sourceURL string) string {
	return e.registry.FindAdapter(sourceURL).Name()
}

// resolveURL resolves a relative URL against a base URL; nil for non-http targets
func resolveURL(base *url.URL, href string) *url.URL {
	// Skip anchors
	if strings.HasPrefix(href, "#") {
		return nil
	}

	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
		return nil
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return nil
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}
	resolved.Fragment = ""

	return resolved
}

func isPDFLink(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsed.Path), ".pdf")
}

// fileName is the unescaped last path segment
func fileName(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func dedupeLinks(links []Link) []Link {
	seen := make(map[string]bool)
	var unique []Link

	for _, link := range links {
		if !seen[link.URL] {
			seen[link.URL] = true
			unique = append(unique, link)
		}
	}

	return unique
}

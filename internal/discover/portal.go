package discover

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// PortalAdapter reads Indian government portals (agriwelfare.gov.in and other
// NIC-hosted sites). Navigation chrome repeats the same circulars on every
// page, so only the main content region is scanned.
type PortalAdapter struct {
	BaseAdapter
	domainSuffixes []string
}

// NewPortalAdapter creates a new government portal adapter
func NewPortalAdapter() *PortalAdapter {
	return &PortalAdapter{
		domainSuffixes: []string{"gov.in", "nic.in"},
	}
}

// Name returns the adapter name
func (a *PortalAdapter) Name() string {
	return "gov-portal"
}

// CanHandle checks for a government portal host
func (a *PortalAdapter) CanHandle(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, suffix := range a.domainSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

// ExtractLinks scans the main content region, falling back to the whole page
func (a *PortalAdapter) ExtractLinks(doc *html.Node, base *url.URL) []Link {
	root := a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "main"
	})

	if root == nil {
		root = a.FindFirst(doc, func(n *html.Node) bool {
			if n.Type != html.ElementNode {
				return false
			}
			return n.Data == "article" ||
				a.GetAttribute(n, "role") == "main" ||
				a.GetAttribute(n, "id") == "main-content" ||
				a.GetAttribute(n, "id") == "content"
		})
	}

	if root == nil {
		root = doc
	}

	return a.anchorLinks(root, base, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		switch n.Data {
		case "header", "footer", "nav", "script", "style", "noscript":
			return true
		}
		return false
	})
}

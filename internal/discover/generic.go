package discover

import (
	"net/url"

	"golang.org/x/net/html"
)

// GenericAdapter is the fallback adapter: every anchor on the page counts
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(rawURL string) bool {
	return true
}

// ExtractLinks returns all anchors except those inside scripts and templates
func (a *GenericAdapter) ExtractLinks(doc *html.Node, base *url.URL) []Link {
	return a.anchorLinks(doc, base, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		switch n.Data {
		case "script", "style", "noscript", "template":
			return true
		}
		return false
	})
}

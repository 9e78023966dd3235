// Package discover finds scheme documents linked from listing pages.
package discover

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Adapter extracts candidate document links from one family of listing pages
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter understands pages at the given URL
	CanHandle(rawURL string) bool

	// ExtractLinks returns every anchor of interest in document order
	ExtractLinks(doc *html.Node, base *url.URL) []Link
}

// Registry manages listing-page adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewPortalAdapter())

	// Generic adapter is the fallback
	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter; later registrations are tried last
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the first adapter that handles the URL
func (r *Registry) FindAdapter(rawURL string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(rawURL) {
			return adapter
		}
	}
	return r.generic
}

// BaseAdapter provides common HTML helpers for adapters
type BaseAdapter struct{}

// ExtractText extracts the text content of a node
func (b *BaseAdapter) ExtractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := b.ExtractText(c); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindAll finds all nodes matching a predicate, skipping subtrees rejected by skip
func (b *BaseAdapter) FindAll(n *html.Node, predicate func(*html.Node) bool, skip func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if skip != nil && skip(node) {
			return
		}
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

// FindFirst finds the first node matching a predicate
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

// anchorLinks turns <a href> nodes under root into resolved links
func (b *BaseAdapter) anchorLinks(root *html.Node, base *url.URL, skip func(*html.Node) bool) []Link {
	anchors := b.FindAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a"
	}, skip)

	links := make([]Link, 0, len(anchors))
	for _, a := range anchors {
		href := strings.TrimSpace(b.GetAttribute(a, "href"))
		if href == "" {
			continue
		}
		resolved := resolveURL(base, href)
		if resolved == nil {
			continue
		}
		links = append(links, Link{
			URL:      resolved.String(),
			Title:    b.ExtractText(a),
			FileName: fileName(resolved),
		})
	}
	return links
}

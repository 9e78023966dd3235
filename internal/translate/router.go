package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/yojana/internal/logging"
)

// Router picks a backend per target language. The specialized backend
// serves its supported languages; any failure there gets exactly one
// immediate attempt on the general backend.
type Router struct {
	specialized Backend
	supported   map[string]bool
	general     Backend
	logger      *logging.Logger
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithRouterLogger sets the logger used for fallback warnings
func WithRouterLogger(logger *logging.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger.With("router")
		}
	}
}

// NewRouter creates a router; at least one backend is required
func NewRouter(specialized Backend, supported []string, general Backend, opts ...RouterOption) (*Router, error) {
	if specialized == nil && general == nil {
		return nil, ErrNoBackend
	}

	r := &Router{
		specialized: specialized,
		supported:   make(map[string]bool, len(supported)),
		general:     general,
		logger:      logging.Nop(),
	}
	for _, lang := range supported {
		r.supported[strings.ToLower(lang)] = true
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Name returns the backend name
func (r *Router) Name() string {
	return strings.Join(r.Backends(), "+")
}

// Supports reports whether some backend can serve the language
func (r *Router) Supports(targetLang string) bool {
	return r.general != nil || (r.specialized != nil && r.supported[strings.ToLower(targetLang)])
}

// Backends lists the names of the configured backends, specialized first
func (r *Router) Backends() []string {
	var names []string
	if r.specialized != nil {
		names = append(names, r.specialized.Name())
	}
	if r.general != nil {
		names = append(names, r.general.Name())
	}
	return names
}

// Translate routes one translation request
func (r *Router) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if r.specialized != nil && r.supported[strings.ToLower(targetLang)] {
		out, err := r.specialized.Translate(ctx, text, targetLang)
		if err == nil {
			return out, nil
		}
		if r.general == nil || ctx.Err() != nil {
			return "", fmt.Errorf("%s: %w", r.specialized.Name(), err)
		}
		r.logger.Warn().
			Str("lang", targetLang).
			Str("backend", r.specialized.Name()).
			Str("fallback", r.general.Name()).
			Err(err).
			Msg("specialized backend failed, falling back")
	}

	if r.general == nil {
		return "", fmt.Errorf("%w for language %q", ErrNoBackend, targetLang)
	}

	out, err := r.general.Translate(ctx, text, targetLang)
	if err != nil {
		return "", fmt.Errorf("%s: %w", r.general.Name(), err)
	}
	return out, nil
}

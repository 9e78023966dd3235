package translate

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ppiankov/yojana/internal/cache"
	"github.com/ppiankov/yojana/internal/logging"
	"github.com/ppiankov/yojana/internal/model"
	"golang.org/x/time/rate"
)

// translateSleepFunc is the sleep function used between retries (injectable for tests)
var translateSleepFunc = time.Sleep

const defaultMaxAttempts = 3

// Translator translates records field by field. Failures never escape:
// a field that cannot be translated keeps its source text.
type Translator struct {
	backend     Backend
	limiter     *rate.Limiter
	baseDelay   time.Duration
	maxAttempts int
	memo        cache.Cache
	scope       string
	logger      *logging.Logger
	onRecord    func(id string)

	mu       sync.Mutex
	degraded map[string]int
}

// NewTranslator creates a translator over backend. Every backend call
// waits on one shared limiter allowing a call per minInterval.
func NewTranslator(backend Backend, minInterval, baseDelay time.Duration, maxAttempts int) *Translator {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if baseDelay < 0 {
		baseDelay = 0
	}

	return &Translator{
		backend:     backend,
		limiter:     rate.NewLimiter(limit, 1),
		baseDelay:   baseDelay,
		maxAttempts: maxAttempts,
		scope:       backend.Name(),
		logger:      logging.Nop(),
		degraded:    make(map[string]int),
	}
}

// WithCache memoizes successful translations
func (t *Translator) WithCache(c cache.Cache) *Translator {
	t.memo = c
	return t
}

// WithCacheScope separates cache entries by backend and model;
// the default scope is the backend name
func (t *Translator) WithCacheScope(scope string) *Translator {
	if scope != "" {
		t.scope = scope
	}
	return t
}

// WithLogger sets the logger
func (t *Translator) WithLogger(logger *logging.Logger) *Translator {
	if logger != nil {
		t.logger = logger.With("translator")
	}
	return t
}

// OnRecord registers a callback invoked after each corpus record is translated
func (t *Translator) OnRecord(fn func(id string)) *Translator {
	t.onRecord = fn
	return t
}

// Degraded returns how many fields kept their source text, per language
func (t *Translator) Degraded() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]int, len(t.degraded))
	for lang, n := range t.degraded {
		out[lang] = n
	}
	return out
}

// TranslateField returns text in lang, or text itself once every attempt failed
func (t *Translator) TranslateField(ctx context.Context, text, lang string) string {
	if text == "" {
		return text
	}

	key := cache.TranslationKey(t.scope, lang, text)
	if t.memo != nil {
		if cached, ok := t.memo.Get(key); ok {
			return string(cached)
		}
	}

	var lastErr error
	for attempt := 0; attempt < t.maxAttempts; attempt++ {
		if err := t.limiter.Wait(ctx); err != nil {
			lastErr = err
			break
		}

		out, err := t.backend.Translate(ctx, text, lang)
		if err == nil {
			if t.memo != nil {
				if err := t.memo.Set(key, []byte(out), 0); err != nil {
					t.logger.Debug().Err(err).Msg("cache write failed")
				}
			}
			return out
		}
		lastErr = err

		if ctx.Err() != nil || errors.Is(err, ErrNoBackend) {
			break
		}

		if attempt < t.maxAttempts-1 {
			backoff := t.baseDelay * time.Duration(1<<uint(attempt))
			t.logger.Warn().
				Str("lang", lang).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Err(err).
				Msg("translation failed, retrying")
			translateSleepFunc(backoff)
		}
	}

	t.mu.Lock()
	t.degraded[lang]++
	t.mu.Unlock()

	t.logger.Error().
		Str("lang", lang).
		Int("chars", len(text)).
		Err(lastErr).
		Msg("translation degraded, keeping source text")

	return text
}

// TranslateRecord returns a translated copy of rec. Absent fields stay
// absent; scheme_level and source_link are copied as they are.
func (t *Translator) TranslateRecord(ctx context.Context, rec model.SchemeRecord, lang string) model.SchemeRecord {
	out := rec.Clone()
	for _, f := range model.TranslatableFields {
		if v := out.Get(f); v != nil {
			out.Set(f, t.TranslateField(ctx, *v, lang))
		}
	}
	return out
}

// TranslateCorpus returns a translated corpus with the same levels and
// identifiers. The input corpus is not modified.
func (t *Translator) TranslateCorpus(ctx context.Context, corpus model.Corpus, lang string) model.Corpus {
	out := make(model.Corpus, len(corpus))

	for _, level := range orderedLevels(corpus) {
		schemes := make(map[string]model.SchemeRecord, len(corpus[level]))
		for _, id := range corpus.IDs(level) {
			schemes[id] = t.TranslateRecord(ctx, corpus[level][id], lang)
			if t.onRecord != nil {
				t.onRecord(id)
			}
		}
		out[level] = schemes
	}

	return out
}

// orderedLevels lists known levels first, then any others found in the corpus
func orderedLevels(corpus model.Corpus) []model.Level {
	var levels []model.Level
	seen := make(map[model.Level]bool)
	for _, l := range model.Levels {
		if _, ok := corpus[l]; ok {
			levels = append(levels, l)
			seen[l] = true
		}
	}
	var extra []model.Level
	for l := range corpus {
		if !seen[l] {
			extra = append(extra, l)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(levels, extra...)
}

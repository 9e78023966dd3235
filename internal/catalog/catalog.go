// Package catalog serves read-only lookups over the canonical and
// translated corpora.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/yojana/internal/corpus"
	"github.com/ppiankov/yojana/internal/logging"
	"github.com/ppiankov/yojana/internal/model"
)

// SourceLanguage is the language of the canonical corpus
const SourceLanguage = "en"

var (
	ErrUnsupportedLanguage = errors.New("language not supported")
	ErrInvalidLevel        = errors.New("level must be either 'central' or 'state'")
	ErrNotFound            = errors.New("scheme not found")
)

// Entry pairs a record with its identifier
type Entry struct {
	SchemeID string             `json:"scheme_id"`
	Details  model.SchemeRecord `json:"details"`
}

// Catalog holds one corpus per language
type Catalog struct {
	corpora map[string]model.Corpus
}

// New builds a catalog from already loaded corpora keyed by language code
func New(corpora map[string]model.Corpus) *Catalog {
	c := &Catalog{corpora: make(map[string]model.Corpus, len(corpora))}
	for lang, cp := range corpora {
		if cp == nil {
			cp = model.Corpus{}
		}
		c.corpora[lang] = cp
	}
	return c
}

// Load reads the canonical corpus and one translated corpus per language
// from dir. Missing, unreadable or invalid files load as empty corpora.
func Load(dir string, languages []model.Language, logger *logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("catalog")

	corpora := map[string]model.Corpus{
		SourceLanguage: loadFile(filepath.Join(dir, corpus.CanonicalFileName), logger),
	}
	for _, lang := range languages {
		if lang.Code == "" || lang.Code == SourceLanguage {
			continue
		}
		corpora[lang.Code] = loadFile(filepath.Join(dir, corpus.TranslatedFileName(lang.Name)), logger)
	}

	c := New(corpora)
	for _, lang := range c.Languages() {
		logger.Info().
			Str("lang", lang).
			Int("schemes", c.corpora[lang].Count()).
			Msg("corpus loaded")
	}
	return c
}

func loadFile(path string, logger *logging.Logger) model.Corpus {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Str("file", path).Err(err).Msg("corpus file unavailable, serving empty corpus")
		return model.Corpus{}
	}

	if err := ValidateCorpus(data); err != nil {
		logger.Warn().Str("file", path).Err(err).Msg("invalid corpus file, serving empty corpus")
		return model.Corpus{}
	}

	cp, err := corpus.DecodeCorpus(data)
	if err != nil {
		logger.Warn().Str("file", path).Err(err).Msg("corrupt corpus file, serving empty corpus")
		return model.Corpus{}
	}
	return cp
}

// Languages returns the supported language codes, sorted
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.corpora))
	for lang := range c.corpora {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Count returns the number of schemes available in a language
func (c *Catalog) Count(lang string) (int, error) {
	cp, err := c.corpus(lang)
	if err != nil {
		return 0, err
	}
	return cp.Count(), nil
}

func (c *Catalog) corpus(lang string) (model.Corpus, error) {
	cp, ok := c.corpora[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnsupportedLanguage, lang, strings.Join(c.Languages(), ", "))
	}
	return cp, nil
}

// ParseLevel validates an optional level filter; "" means all levels
func ParseLevel(level string) (model.Level, error) {
	switch l := model.Level(strings.ToLower(strings.TrimSpace(level))); l {
	case "":
		return "", nil
	case model.LevelCentral, model.LevelState:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
}

// List returns the schemes of a language, optionally filtered by level,
// in level order then identifier order
func (c *Catalog) List(lang, level string) ([]Entry, error) {
	cp, err := c.corpus(lang)
	if err != nil {
		return nil, err
	}
	filter, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	for _, l := range model.Levels {
		if filter != "" && l != filter {
			continue
		}
		for _, id := range cp.IDs(l) {
			entries = append(entries, Entry{SchemeID: id, Details: cp[l][id]})
		}
	}
	return entries, nil
}

// Get returns one scheme by identifier
func (c *Catalog) Get(id, lang string) (Entry, error) {
	cp, err := c.corpus(lang)
	if err != nil {
		return Entry{}, err
	}

	for _, l := range model.Levels {
		if rec, ok := cp[l][id]; ok {
			return Entry{SchemeID: id, Details: rec}, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Latest returns up to n schemes for the chat surface, in List order
func (c *Catalog) Latest(lang string, n int) ([]Entry, error) {
	entries, err := c.List(lang, "")
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

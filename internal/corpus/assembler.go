// Package corpus assembles scheme records and groups them into the level-keyed corpus.
package corpus

import (
	"net/url"
	"path"
	"strings"

	"github.com/ppiankov/yojana/internal/extract"
	"github.com/ppiankov/yojana/internal/model"
	"github.com/ppiankov/yojana/internal/score"
)

// DefaultSourceBaseURL is the listing page the scheme PDFs are published under
const DefaultSourceBaseURL = "https://agriwelfare.gov.in/en/Major"

// SourceLinker turns a document reference into its public link
type SourceLinker struct {
	base string
}

// NewSourceLinker creates a linker; an empty base keeps references as-is
func NewSourceLinker(base string) *SourceLinker {
	return &SourceLinker{base: strings.TrimRight(base, "/")}
}

// Link returns ref unchanged when it is already an http(s) URL, otherwise the
// base URL joined with the reference's file name
func (l *SourceLinker) Link(ref string) string {
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return ref
	}
	if l.base == "" {
		return ref
	}

	name := path.Base(strings.ReplaceAll(ref, "\\", "/"))
	return l.base + "/" + url.PathEscape(name)
}

// Assembler builds one record from one document's text.
// It holds no mutable state and is safe for concurrent use.
type Assembler struct {
	fields     *extract.FieldExtractor
	classifier *score.Classifier
	linker     *SourceLinker
	descLimit  int
}

// NewAssembler wires the extraction components together
func NewAssembler(fields *extract.FieldExtractor, classifier *score.Classifier, linker *SourceLinker, descLimit int) *Assembler {
	if descLimit <= 0 {
		descLimit = extract.DefaultDescriptionSentences
	}
	return &Assembler{
		fields:     fields,
		classifier: classifier,
		linker:     linker,
		descLimit:  descLimit,
	}
}

// NewDefaultAssembler builds an assembler from extraction settings
func NewDefaultAssembler(cfg model.ExtractConfig) *Assembler {
	return NewAssembler(
		extract.NewDefaultFieldExtractor(cfg.MaxWords),
		score.NewClassifier(),
		NewSourceLinker(cfg.SourceBaseURL),
		cfg.DescriptionLimit,
	)
}

// Assemble extracts every field independently, derives the description from
// the scheme name, classifies the level once and stamps the source link
func (a *Assembler) Assemble(text, sourceRef string) model.SchemeRecord {
	rec := model.SchemeRecord{
		SourceLink: a.linker.Link(sourceRef),
	}

	for _, field := range extract.ExtractedFields {
		if value, ok := a.fields.ExtractField(text, field); ok {
			rec.Set(field, value)
		}
	}

	if rec.SchemeName != nil {
		if desc, ok := extract.ExtractDescription(text, *rec.SchemeName, a.descLimit); ok {
			rec.Description = &desc
		}
	}

	rec.SchemeLevel = a.classifier.Classify(text)

	return rec
}

// GroupAndIdentify partitions records by level, preserving input order within
// each level, and assigns {level}_scheme_{NN} identifiers starting at 01.
// Levels without records are omitted.
func GroupAndIdentify(records []model.SchemeRecord) model.Corpus {
	corpus := make(model.Corpus)

	counters := make(map[model.Level]int)
	for _, rec := range records {
		level := rec.SchemeLevel
		if level == "" {
			level = model.LevelUnspecified
			rec.SchemeLevel = level
		}

		if corpus[level] == nil {
			corpus[level] = make(map[string]model.SchemeRecord)
		}
		counters[level]++
		corpus[level][model.SchemeID(level, counters[level])] = rec
	}

	return corpus
}

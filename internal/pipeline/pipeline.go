package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ppiankov/yojana/internal/corpus"
	"github.com/ppiankov/yojana/internal/logging"
	"github.com/ppiankov/yojana/internal/model"
	"github.com/ppiankov/yojana/internal/textract"
)

// Document is one input PDF. Data is used when set, otherwise the named file
// is loaded from the content store.
type Document struct {
	Name string
	Data []byte
}

// StageError attributes a document failure to a pipeline stage
type StageError struct {
	Document string
	Stage    model.Stage
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Document, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// TextExtractor converts document bytes into cleaned text
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// Pipeline turns documents into scheme records
type Pipeline struct {
	store     ContentStore
	extractor TextExtractor
	assembler *corpus.Assembler
	logger    *logging.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, store ContentStore, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Pipeline{
		store:     store,
		extractor: textract.NewExtractor(),
		assembler: corpus.NewDefaultAssembler(cfg.Extract),
		logger:    logger.With("pipeline"),
	}
}

// ProcessDocument extracts text and assembles one record.
// Empty or undecodable documents return a *StageError and produce no record.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc Document) (*model.SchemeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StageError{Document: doc.Name, Stage: model.StageExtract, Err: err}
	}

	data := doc.Data
	if data == nil {
		if p.store == nil {
			return nil, &StageError{Document: doc.Name, Stage: model.StageFetch, Err: fmt.Errorf("no content and no store configured")}
		}
		loaded, err := p.store.Load(doc.Name)
		if err != nil {
			return nil, &StageError{Document: doc.Name, Stage: model.StageFetch, Err: err}
		}
		data = loaded
	}

	text, err := p.extractor.Extract(data)
	if err != nil {
		p.logger.Warn().Str("document", doc.Name).Err(err).Msg("skipping document")
		return nil, &StageError{Document: doc.Name, Stage: model.StageExtract, Err: err}
	}

	rec := p.assembler.Assemble(text, filepath.Base(doc.Name))

	p.logger.Debug().
		Str("document", doc.Name).
		Str("level", string(rec.SchemeLevel)).
		Bool("named", rec.SchemeName != nil).
		Msg("document processed")

	return &rec, nil
}

// Documents lists the store's PDFs in file-name order
func (p *Pipeline) Documents() ([]Document, error) {
	if p.store == nil {
		return nil, fmt.Errorf("no content store configured")
	}
	names, err := p.store.List()
	if err != nil {
		return nil, err
	}
	docs := make([]Document, len(names))
	for i, name := range names {
		docs[i] = Document{Name: name}
	}
	return docs, nil
}

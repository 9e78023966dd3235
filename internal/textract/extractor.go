// Package textract turns PDF documents into cleaned, linearized text.
package textract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrEmptyDocument is returned for zero-length input
	ErrEmptyDocument = errors.New("empty document")

	// ErrNoPages is returned when the document declares no pages
	ErrNoPages = errors.New("document has no pages")

	// ErrNoText is returned when no page yielded any text (e.g. scanned images)
	ErrNoText = errors.New("no text content could be extracted")
)

// ExtractionError reports an undecodable or corrupt document
type ExtractionError struct {
	Op  string // open, decode, repair
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// decodeFunc splits a PDF into per-page plain text
type decodeFunc func(data []byte) ([]string, error)

// repairFunc rewrites a damaged PDF into a form the decoder can open
type repairFunc func(data []byte) ([]byte, error)

// Extractor converts PDF bytes into normalized text.
// The ledongthuc decoder is primary; documents it cannot open are rewritten by
// pdfcpu in relaxed mode and decoded once more.
type Extractor struct {
	decode decodeFunc
	repair repairFunc
}

// NewExtractor creates an extractor with the default decoder and repair backends
func NewExtractor() *Extractor {
	return &Extractor{
		decode: decodePages,
		repair: repairWithPDFCPU,
	}
}

// Extract decodes the document page-by-page, joins pages with newlines and normalizes the result
func (e *Extractor) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Op: "open", Err: ErrEmptyDocument}
	}

	pages, err := e.decode(data)
	if err != nil && e.repair != nil && !errors.Is(err, ErrNoPages) {
		repaired, repairErr := e.repair(data)
		if repairErr != nil {
			return "", &ExtractionError{Op: "repair", Err: fmt.Errorf("%w (decode: %v)", repairErr, err)}
		}
		pages, err = e.decode(repaired)
	}
	if err != nil {
		return "", &ExtractionError{Op: "decode", Err: err}
	}
	if len(pages) == 0 {
		return "", &ExtractionError{Op: "decode", Err: ErrNoPages}
	}

	text := Normalize(strings.Join(pages, "\n"))
	if text == "" {
		return "", &ExtractionError{Op: "decode", Err: ErrNoText}
	}

	return text, nil
}

// PageCount reports the number of pages using pdfcpu's relaxed parser
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), relaxedConfig())
	if err != nil {
		return 0, &ExtractionError{Op: "open", Err: err}
	}
	return n, nil
}

// decodePages extracts plain text per page with ledongthuc/pdf
func decodePages(data []byte) (pages []string, err error) {
	// The decoder panics on some malformed object streams
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf decoder panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	if total == 0 {
		return nil, ErrNoPages
	}

	for pageNum := 1; pageNum <= total; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Continue with other pages even if one fails
			continue
		}
		pages = append(pages, content)
	}

	return pages, nil
}

// repairWithPDFCPU rewrites the document with a fresh cross-reference table
func repairWithPDFCPU(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, relaxedConfig()); err != nil {
		return nil, fmt.Errorf("pdfcpu optimize: %w", err)
	}
	return buf.Bytes(), nil
}

func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

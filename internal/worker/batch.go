package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/yojana/internal/model"
	"github.com/ppiankov/yojana/internal/pipeline"
)

// DocumentProcessor turns one document into a record
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, doc pipeline.Document) (*model.SchemeRecord, error)
}

// DocumentJob represents one document extraction
type DocumentJob struct {
	Document  pipeline.Document
	Processor DocumentProcessor
	OnDone    func(*DocumentResult)
}

// Execute executes the document job
func (j *DocumentJob) Execute(ctx context.Context) Result {
	record, err := j.Processor.ProcessDocument(ctx, j.Document)
	result := &DocumentResult{
		Document: j.Document.Name,
		Record:   record,
		Error:    err,
	}
	if j.OnDone != nil {
		j.OnDone(result)
	}
	return result
}

// DocumentResult represents the result of a document job
type DocumentResult struct {
	Document string
	Record   *model.SchemeRecord
	Error    error
}

// GetError returns the error from the document result
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor processes documents concurrently
type BatchProcessor struct {
	processor   DocumentProcessor
	concurrency int
	onDone      func(*DocumentResult)
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor DocumentProcessor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// OnDone registers a callback invoked from worker goroutines as each document finishes
func (b *BatchProcessor) OnDone(fn func(*DocumentResult)) *BatchProcessor {
	b.onDone = fn
	return b
}

// ProcessDocuments processes documents concurrently; results are in input order
func (b *BatchProcessor) ProcessDocuments(ctx context.Context, docs []pipeline.Document) []*DocumentResult {
	if len(docs) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for _, doc := range docs {
		pool.Submit(&DocumentJob{
			Document:  doc,
			Processor: b.processor,
			OnDone:    b.onDone,
		})
	}

	results := pool.Wait()

	docResults := make([]*DocumentResult, len(results))
	for i, result := range results {
		docResults[i] = result.(*DocumentResult)
	}

	return docResults
}

// ReadURLsFromFile reads URLs from a file (one per line)
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}

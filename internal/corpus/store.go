package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/yojana/internal/model"
)

const (
	// CanonicalFileName holds the English corpus
	CanonicalFileName = "processed_schemes.json"

	// ManifestFileName holds the summary of the last run
	ManifestFileName = "run_manifest.json"
)

// TranslatedFileName returns the file holding the corpus in the named language
func TranslatedFileName(languageName string) string {
	return fmt.Sprintf("processed_schemes_%s.json", languageName)
}

// WriteCorpus writes the corpus as indented UTF-8 JSON, replacing path atomically
func WriteCorpus(path string, corpus model.Corpus) error {
	if corpus == nil {
		corpus = model.Corpus{}
	}
	return writeJSON(path, corpus)
}

// ReadCorpus loads a corpus file
func ReadCorpus(path string) (model.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	corpus, err := DecodeCorpus(data)
	if err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", filepath.Base(path), err)
	}
	return corpus, nil
}

// DecodeCorpus parses corpus JSON; a JSON null yields an empty corpus
func DecodeCorpus(data []byte) (model.Corpus, error) {
	var corpus model.Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, err
	}
	if corpus == nil {
		corpus = model.Corpus{}
	}
	return corpus, nil
}

// NewRunSummary starts a summary for a command with a fresh run id
func NewRunSummary(command string) *model.RunSummary {
	return &model.RunSummary{
		RunID:     uuid.NewString(),
		Command:   command,
		StartedAt: time.Now().UTC(),
		Counts:    make(map[model.Level]int),
		Failures:  []model.DocumentFailure{},
	}
}

// Finish stamps the end time and per-level counts from the corpus
func Finish(summary *model.RunSummary, corpus model.Corpus) {
	summary.FinishedAt = time.Now().UTC()
	for _, level := range model.Levels {
		if n := len(corpus[level]); n > 0 {
			summary.Counts[level] = n
		}
	}
}

// WriteManifest writes the run summary into dir
func WriteManifest(dir string, summary *model.RunSummary) error {
	return writeJSON(filepath.Join(dir, ManifestFileName), summary)
}

// ReadManifest loads the run summary from dir
func ReadManifest(dir string) (*model.RunSummary, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var summary model.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &summary, nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

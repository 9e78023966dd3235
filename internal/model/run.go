package model

import "time"

// Stage names the pipeline step a document failed in
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageExtract   Stage = "extract"
	StageAssemble  Stage = "assemble"
	StageTranslate Stage = "translate"
	StageWrite     Stage = "write"
)

// DocumentFailure records a document that was skipped
type DocumentFailure struct {
	Document string `json:"document"`
	Stage    Stage  `json:"stage"`
	Error    string `json:"error"`
}

// RunSummary describes one batch run; it is written next to the corpus
type RunSummary struct {
	RunID      string            `json:"run_id"`
	Command    string            `json:"command"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Documents  int               `json:"documents"`
	Processed  int               `json:"processed"`
	Counts     map[Level]int     `json:"counts"`
	Languages  []string          `json:"languages,omitempty"`
	Degraded   map[string]int    `json:"degraded_translations,omitempty"`
	Failures   []DocumentFailure `json:"failures"`
}

// Fail records a skipped document
func (s *RunSummary) Fail(document string, stage Stage, err error) {
	s.Failures = append(s.Failures, DocumentFailure{
		Document: document,
		Stage:    stage,
		Error:    err.Error(),
	})
}

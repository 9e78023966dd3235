// Package score decides the administrative level of a scheme document.
package score

import (
	"fmt"
	"regexp"

	"github.com/ppiankov/yojana/internal/model"
)

// Indicator is a named phrase that votes for one administrative level
type Indicator struct {
	Name    string
	Pattern *regexp.Regexp
}

func indicator(name, pattern string) Indicator {
	return Indicator{Name: name, Pattern: regexp.MustCompile(`(?i)` + pattern)}
}

// CentralIndicators vote for a union-government scheme
var CentralIndicators = []Indicator{
	indicator("central scheme", `central(\s+sector)?\s+scheme`),
	indicator("government of india", `government\s+of\s+india`),
	indicator("ministry of", `ministry\s+of`),
	indicator("pradhan mantri", `pradhan\s+mantri`),
	indicator("national scheme", `national\s+scheme`),
	indicator("centrally sponsored", `centrally\s+sponsored`),
	indicator("pmksy", `PMKSY`),
	indicator("pm-kisan", `PM-KISAN`),
	indicator("union government", `union government`),
	indicator("niti aayog", `niti aayog`),
	indicator("department of agriculture", `department of agriculture`),
	indicator("ministry of agriculture", `ministry of agriculture`),
	indicator("goi scheme", `goi scheme`),
	indicator("central assistance", `central assistance`),
	indicator("central government", `central government`),
}

// StateIndicators vote for a state-government scheme
var StateIndicators = []Indicator{
	indicator("state scheme", `state(\s+sector)?\s+scheme`),
	indicator("state government", `state\s+government`),
	indicator("mukhya mantri", `mukhya\s+mantri`),
	indicator("state sponsored", `state\s+sponsored`),
	indicator("state level", `state level`),
	indicator("state department", `state department`),
	indicator("state agriculture department", `state agriculture department`),
	indicator("state sponsored scheme", `state sponsored scheme`),
}

// LevelScore is the outcome of classification with its supporting matches
type LevelScore struct {
	Level   model.Level `json:"level"`
	Central int         `json:"central"`
	State   int         `json:"state"`
	Matched []string    `json:"matched,omitempty"`
}

// String renders the score for diagnostics
func (s LevelScore) String() string {
	return fmt.Sprintf("%s (central=%d, state=%d)", s.Level, s.Central, s.State)
}

// Classifier counts distinct indicators present in a document
type Classifier struct {
	central []Indicator
	state   []Indicator
}

// NewClassifier creates a classifier over the built-in vocabularies
func NewClassifier() *Classifier {
	return &Classifier{
		central: CentralIndicators,
		state:   StateIndicators,
	}
}

// NewClassifierWith creates a classifier over custom vocabularies
func NewClassifierWith(central, state []Indicator) *Classifier {
	return &Classifier{central: central, state: state}
}

// Classify returns the level of the document
func (c *Classifier) Classify(text string) model.Level {
	return c.Score(text).Level
}

// Score counts each indicator at most once, however often it occurs.
// More central than state is central, more state than central is state,
// a non-zero tie is central, and no matches is unspecified.
func (c *Classifier) Score(text string) LevelScore {
	var s LevelScore

	for _, ind := range c.central {
		if ind.Pattern.MatchString(text) {
			s.Central++
			s.Matched = append(s.Matched, ind.Name)
		}
	}
	for _, ind := range c.state {
		if ind.Pattern.MatchString(text) {
			s.State++
			s.Matched = append(s.Matched, ind.Name)
		}
	}

	switch {
	case s.Central > s.State:
		s.Level = model.LevelCentral
	case s.State > s.Central:
		s.Level = model.LevelState
	case s.Central > 0:
		s.Level = model.LevelCentral
	default:
		s.Level = model.LevelUnspecified
	}

	return s
}

package score

import (
	"strings"
	"testing"

	"github.com/ppiankov/yojana/internal/model"
)

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		text     string
		expected model.Level
		desc     string
	}{
		{
			text:     "This programme supports rural households.",
			expected: model.LevelUnspecified,
			desc:     "no indicators",
		},
		{
			text:     "Implemented by the Ministry of Agriculture and Farmers Welfare.",
			expected: model.LevelCentral,
			desc:     "ministry of agriculture matches two central indicators",
		},
		{
			text:     "The State Government runs the Mukhya Mantri scheme with the Ministry of Finance.",
			expected: model.LevelState,
			desc:     "two state indicators beat one central",
		},
		{
			text:     "A Central Sector Scheme co-funded by the state government.",
			expected: model.LevelCentral,
			desc:     "tie goes to central",
		},
		{
			text:     "PM-KISAN is a central sector scheme of the Government of India.",
			expected: model.LevelCentral,
			desc:     "plain central document",
		},
		{
			text:     "STATE   SPONSORED SCHEME for farmers",
			expected: model.LevelState,
			desc:     "case and whitespace insensitive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := classifier.Classify(tt.text); got != tt.expected {
				t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassifier_Score_DistinctCounting(t *testing.T) {
	classifier := NewClassifier()

	text := strings.Repeat("Pradhan Mantri ", 10) + "state government state level"
	s := classifier.Score(text)

	if s.Central != 1 {
		t.Errorf("expected repeated indicator to count once, got central=%d", s.Central)
	}
	if s.State != 2 {
		t.Errorf("expected 2 state indicators, got %d", s.State)
	}
	if s.Level != model.LevelState {
		t.Errorf("expected state, got %s", s.Level)
	}
	if len(s.Matched) != 3 {
		t.Errorf("expected 3 matched indicators, got %v", s.Matched)
	}
}

func TestClassifier_Vocabularies(t *testing.T) {
	if len(CentralIndicators) != 15 {
		t.Errorf("expected 15 central indicators, got %d", len(CentralIndicators))
	}
	if len(StateIndicators) != 8 {
		t.Errorf("expected 8 state indicators, got %d", len(StateIndicators))
	}
}

func TestClassifier_CustomVocabulary(t *testing.T) {
	classifier := NewClassifierWith(
		[]Indicator{indicator("krishi", `krishi`)},
		nil,
	)

	s := classifier.Score("Krishi Vikas")
	if s.Level != model.LevelCentral {
		t.Errorf("expected central, got %s", s)
	}
}

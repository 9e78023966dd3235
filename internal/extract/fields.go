package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/yojana/internal/model"
)

// DefaultMaxWords caps accepted matches so a far-away terminator cannot swallow the document
const DefaultMaxWords = 100

type compiledPattern struct {
	FieldPattern
	re *regexp.Regexp
}

// FieldExtractor locates field values in cleaned document text
type FieldExtractor struct {
	maxWords int
	rules    map[model.Field][]compiledPattern
}

// NewFieldExtractor compiles the table. Rows are ordered by Priority per field;
// equal priorities keep their table order.
func NewFieldExtractor(table PatternTable, maxWords int) (*FieldExtractor, error) {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	rules := make(map[model.Field][]compiledPattern)
	for _, row := range table {
		flags := "(?i)"
		if row.Multiline {
			flags = "(?is)"
		}
		re, err := regexp.Compile(flags + row.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern %q: %w", row.Field, row.Pattern, err)
		}
		rules[row.Field] = append(rules[row.Field], compiledPattern{FieldPattern: row, re: re})
	}

	for field := range rules {
		sort.SliceStable(rules[field], func(i, j int) bool {
			return rules[field][i].Priority < rules[field][j].Priority
		})
	}

	return &FieldExtractor{
		maxWords: maxWords,
		rules:    rules,
	}, nil
}

// NewDefaultFieldExtractor returns an extractor over DefaultPatterns
func NewDefaultFieldExtractor(maxWords int) *FieldExtractor {
	fx, err := NewFieldExtractor(DefaultPatterns, maxWords)
	if err != nil {
		panic(err) // built-in table is static
	}
	return fx
}

// MaxWords returns the configured word cap
func (x *FieldExtractor) MaxWords() int {
	return x.maxWords
}

// Patterns returns the rows of a field in the order they are tried
func (x *FieldExtractor) Patterns(field model.Field) []FieldPattern {
	rows := make([]FieldPattern, 0, len(x.rules[field]))
	for _, r := range x.rules[field] {
		rows = append(rows, r.FieldPattern)
	}
	return rows
}

// ExtractField returns the first accepted match for the field.
// A match is accepted when its whitespace-collapsed text is non-empty and has
// at most MaxWords words. Absence is reported with ok == false.
func (x *FieldExtractor) ExtractField(text string, field model.Field) (value string, ok bool) {
	for _, rule := range x.rules[field] {
		for _, match := range rule.re.FindAllStringSubmatch(text, -1) {
			content := match[0]
			if len(match) > 1 {
				content = match[1]
			}

			words := strings.Fields(content)
			if len(words) == 0 || len(words) > x.maxWords {
				continue
			}
			return strings.Join(words, " "), true
		}
	}
	return "", false
}

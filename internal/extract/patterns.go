package extract

import "github.com/ppiankov/yojana/internal/model"

// FieldPattern is one row of the extraction table. Rows of the same field are
// tried in ascending Priority; the first row yielding an accepted match wins.
type FieldPattern struct {
	Field     model.Field
	Priority  int
	Pattern   string // case-insensitive; capture group 1 is the value
	Multiline bool   // body fields: '.' also matches newlines
}

// PatternTable is an ordered set of field patterns
type PatternTable []FieldPattern

// Short fields end at the line break; body fields end at a blank line.
const (
	lineEnd  = `(?:\n|$)`
	blockEnd = `(?:\n\n|$)`
)

// DefaultPatterns is the built-in extraction table for scheme documents
var DefaultPatterns = PatternTable{
	{Field: model.FieldSchemeName, Priority: 10, Pattern: `scheme\s+name[:\s]+(.*?)` + lineEnd},
	{Field: model.FieldSchemeName, Priority: 20, Pattern: `name of (?:the\s+)?scheme[:\s]+(.*?)` + lineEnd},
	{Field: model.FieldSchemeName, Priority: 30, Pattern: `^([^.\n]+(?:scheme|yojana|program))[.\n]`},

	{Field: model.FieldEligibility, Priority: 10, Pattern: `eligibility[:\s]+(.*?)` + blockEnd, Multiline: true},
	{Field: model.FieldEligibility, Priority: 20, Pattern: `who can apply[?\s:]+(.*?)` + blockEnd, Multiline: true},
	{Field: model.FieldEligibility, Priority: 30, Pattern: `eligible[^:\n]*:[:\s]+(.*?)` + blockEnd, Multiline: true},

	{Field: model.FieldBenefits, Priority: 10, Pattern: `benefits[:\s]+(.*?)` + blockEnd, Multiline: true},
	{Field: model.FieldBenefits, Priority: 20, Pattern: `assistance provided[:\s]+(.*?)` + blockEnd, Multiline: true},
	{Field: model.FieldBenefits, Priority: 30, Pattern: `financial assistance[:\s]+(.*?)` + blockEnd, Multiline: true},

	{Field: model.FieldApplicationProcess, Priority: 10, Pattern: `(?:how to apply|application process)[:\s]+(.*?)` + blockEnd, Multiline: true},
	{Field: model.FieldApplicationProcess, Priority: 20, Pattern: `procedure for application[:\s]+(.*?)` + blockEnd, Multiline: true},
	{Field: model.FieldApplicationProcess, Priority: 30, Pattern: `application procedure[:\s]+(.*?)` + blockEnd, Multiline: true},

	{Field: model.FieldDeadline, Priority: 10, Pattern: `(?:last date|deadline)[:\s]+(.*?)` + lineEnd},
	{Field: model.FieldDeadline, Priority: 20, Pattern: `submission deadline[:\s]+(.*?)` + lineEnd},
	{Field: model.FieldDeadline, Priority: 30, Pattern: `apply before[:\s]+(.*?)` + lineEnd},

	{Field: model.FieldCategory, Priority: 10, Pattern: `category[:\s]+(.*?)` + lineEnd},
	{Field: model.FieldCategory, Priority: 20, Pattern: `type of scheme[:\s]+(.*?)` + lineEnd},
	{Field: model.FieldCategory, Priority: 30, Pattern: `scheme type[:\s]+(.*?)` + lineEnd},
}

// ExtractedFields lists the fields covered by pattern extraction, in record order.
// Description is derived separately from the scheme name.
var ExtractedFields = []model.Field{
	model.FieldSchemeName,
	model.FieldEligibility,
	model.FieldBenefits,
	model.FieldApplicationProcess,
	model.FieldDeadline,
	model.FieldCategory,
}

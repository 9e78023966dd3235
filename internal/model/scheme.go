package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Level classifies the issuing government of a scheme
type Level string

const (
	LevelCentral     Level = "central"     // Issued by the national government
	LevelState       Level = "state"       // Issued by a state government
	LevelUnspecified Level = "unspecified" // No indicator evidence either way
)

// Levels lists every level in corpus output order
var Levels = []Level{LevelCentral, LevelState, LevelUnspecified}

// SchemeRecord is the structured representation of one scheme document.
// Optional fields are nil until an extraction pass populates them.
type SchemeRecord struct {
	SchemeName         *string `json:"scheme_name"`
	SchemeLevel        Level   `json:"scheme_level"`
	Description        *string `json:"description"`
	Eligibility        *string `json:"eligibility"`
	Benefits           *string `json:"benefits"`
	ApplicationProcess *string `json:"application_process"`
	Deadline           *string `json:"deadline"`
	SourceLink         string  `json:"source_link"`
	Category           *string `json:"category"`
}

// Field names a record attribute addressable by extraction and translation
type Field string

const (
	FieldSchemeName         Field = "scheme_name"
	FieldDescription        Field = "description"
	FieldEligibility        Field = "eligibility"
	FieldBenefits           Field = "benefits"
	FieldApplicationProcess Field = "application_process"
	FieldDeadline           Field = "deadline"
	FieldCategory           Field = "category"
)

// TranslatableFields are the natural-language fields replaced in translated copies.
// scheme_level and source_link are never translated.
var TranslatableFields = []Field{
	FieldSchemeName,
	FieldDescription,
	FieldEligibility,
	FieldBenefits,
	FieldApplicationProcess,
	FieldDeadline,
	FieldCategory,
}

// Get returns a pointer to the storage of the named optional field
func (r *SchemeRecord) Get(f Field) *string {
	switch f {
	case FieldSchemeName:
		return r.SchemeName
	case FieldDescription:
		return r.Description
	case FieldEligibility:
		return r.Eligibility
	case FieldBenefits:
		return r.Benefits
	case FieldApplicationProcess:
		return r.ApplicationProcess
	case FieldDeadline:
		return r.Deadline
	case FieldCategory:
		return r.Category
	}
	return nil
}

// Set stores value in the named optional field
func (r *SchemeRecord) Set(f Field, value string) {
	v := value
	switch f {
	case FieldSchemeName:
		r.SchemeName = &v
	case FieldDescription:
		r.Description = &v
	case FieldEligibility:
		r.Eligibility = &v
	case FieldBenefits:
		r.Benefits = &v
	case FieldApplicationProcess:
		r.ApplicationProcess = &v
	case FieldDeadline:
		r.Deadline = &v
	case FieldCategory:
		r.Category = &v
	}
}

// Clone returns a deep copy so derived records never alias canonical storage
func (r SchemeRecord) Clone() SchemeRecord {
	out := SchemeRecord{
		SchemeLevel: r.SchemeLevel,
		SourceLink:  r.SourceLink,
	}
	for _, f := range TranslatableFields {
		if v := r.Get(f); v != nil {
			out.Set(f, *v)
		}
	}
	return out
}

// Corpus maps level -> level-scoped identifier -> record.
// Identifiers ({level}_scheme_{NN}) are positional and only stable within one run.
type Corpus map[Level]map[string]SchemeRecord

// Count returns the number of records across all levels
func (c Corpus) Count() int {
	n := 0
	for _, schemes := range c {
		n += len(schemes)
	}
	return n
}

// SchemeID builds the identifier of the n-th (1-based) record of a level
func SchemeID(level Level, n int) string {
	return fmt.Sprintf("%s_scheme_%02d", level, n)
}

// IDs returns the identifiers of a level in assignment order
func (c Corpus) IDs(level Level) []string {
	ids := make([]string, 0, len(c[level]))
	for id := range c[level] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, nj := schemeOrdinal(ids[i]), schemeOrdinal(ids[j])
		if ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// schemeOrdinal extracts the trailing number of an identifier, -1 if none
func schemeOrdinal(id string) int {
	idx := strings.LastIndex(id, "_")
	if idx < 0 {
		return -1
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return -1
	}
	return n
}

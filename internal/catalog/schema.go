package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const corpusSchemaURL = "corpus.schema.json"

// corpusSchema describes processed_schemes*.json: level -> id -> record
const corpusSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": ["object", "null"],
  "propertyNames": {"enum": ["central", "state", "unspecified"]},
  "additionalProperties": {
    "type": "object",
    "propertyNames": {"pattern": "^(central|state|unspecified)_scheme_[0-9]{2,}$"},
    "additionalProperties": {"$ref": "#/definitions/record"}
  },
  "definitions": {
    "optionalText": {"type": ["string", "null"]},
    "record": {
      "type": "object",
      "required": ["scheme_level", "source_link"],
      "properties": {
        "scheme_name": {"$ref": "#/definitions/optionalText"},
        "scheme_level": {"enum": ["central", "state", "unspecified"]},
        "description": {"$ref": "#/definitions/optionalText"},
        "eligibility": {"$ref": "#/definitions/optionalText"},
        "benefits": {"$ref": "#/definitions/optionalText"},
        "application_process": {"$ref": "#/definitions/optionalText"},
        "deadline": {"$ref": "#/definitions/optionalText"},
        "source_link": {"type": "string"},
        "category": {"$ref": "#/definitions/optionalText"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(corpusSchemaURL, strings.NewReader(corpusSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(corpusSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateCorpus checks raw corpus JSON against the corpus schema
func ValidateCorpus(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal corpus: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("corpus does not match schema: %w", err)
	}
	return nil
}

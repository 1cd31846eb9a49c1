package schema

import (
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// TreeDocumentSchema is the JSON Schema of a decision tree document:
// question nodes keyed by ID plus a reserved "endpoints" table.
const TreeDocumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "minProperties": 1,
  "properties": {
    "endpoints": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string"}
      }
    }
  },
  "additionalProperties": {
    "type": ["object", "null"],
    "required": ["question"],
    "properties": {
      "question": {"type": "string"},
      "yes": {"type": ["string", "null"]},
      "no": {"type": ["string", "null"]}
    }
  }
}`

var treeSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(TreeDocumentSchema))
})

// validateDocument checks a decoded document against TreeDocumentSchema.
func validateDocument(doc any) error {
	s, err := treeSchema()
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &AggregateError{Errors: []error{&ValidationError{Key: "(root)", Reason: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}
	errs := make([]error, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, &ValidationError{
			Key:    re.Field(),
			Reason: re.Description(),
			Value:  re.Value(),
		})
	}
	return &AggregateError{Errors: errs}
}

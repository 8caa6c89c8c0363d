// Package schemas validates provider replies against the JSON Schemas packaged
// with the binary.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/amishk599/crucible/internal/model"
)

//go:embed *.json
var schemaFiles embed.FS

// Schema file names.
const (
	Classification = "classification.json"
	Drafts         = "drafts.json"
)

// ValidationError lists every field that does not match the schema.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is a single mismatch at a JSON field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("reply does not match %s:", ve.Schema))
	for _, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", fe.Field, fe.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Unwrap lets callers treat schema mismatches as provider data errors.
func (ve *ValidationError) Unwrap() error {
	return model.ErrProviderData
}

// Validate checks doc against the named packaged schema.
func Validate(schema string, doc []byte) error {
	raw, err := schemaFiles.ReadFile(schema)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", schema, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(raw),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: validate against %s: %v", model.ErrProviderData, schema, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{
		Schema: schema,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

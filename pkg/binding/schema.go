package binding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// errSchemaMismatch is returned when a body parses as JSON but does not
// satisfy the binding's schema.
var errSchemaMismatch = errors.New("body does not match schema")

func compileSchema(schema string) (*gojsonschema.Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compiling body schema: %w", err)
	}
	return compiled, nil
}

func validateSchema(schema *gojsonschema.Schema, body string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return fmt.Errorf("%w: %s", errSchemaMismatch, strings.Join(details, "; "))
}

package binding

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rhuss/restapp/pkg/api"
)

// Source identifies where a binding reads its value from.
type Source int

const (
	SourceQuery Source = iota
	SourceBody
)

// String returns "query" or "body".
func (s Source) String() string {
	if s == SourceBody {
		return "body"
	}
	return "query"
}

// Binding is a rule for extracting one handler argument from a request.
// Construct bindings with Query, Body or BodyWithSchema.
type Binding struct {
	Source Source
	// Name is the query parameter name; empty for body bindings.
	Name string

	decode   func(body string) (any, error)
	schema   string
	compiled *gojsonschema.Schema
}

// Query binds the decoded query value name, coerced with Coerce. The
// argument is a Value.
func Query(name string) Binding {
	return Binding{Source: SourceQuery, Name: name}
}

// Body binds the request body decoded as JSON into a fresh T. The
// argument is a T; use BodyAs to read it.
func Body[T any]() Binding {
	return Binding{
		Source: SourceBody,
		decode: func(body string) (any, error) {
			var v T
			if err := json.Unmarshal([]byte(body), &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// BodyWithSchema is Body with an additional JSON Schema check. The
// schema is compiled when the route is registered.
func BodyWithSchema[T any](schema string) Binding {
	b := Body[T]()
	b.schema = schema
	return b
}

// String describes the binding for logs and route listings.
func (b Binding) String() string {
	if b.Source == SourceBody {
		return "body"
	}
	return "query:" + b.Name
}

// Prepare validates a binding list at registration time and compiles any
// body schemas. It rejects empty query names, hand-built body bindings
// without a decoder, invalid schemas and more than one body binding.
// The returned slice is a copy and safe to retain.
func Prepare(bindings []Binding) ([]Binding, error) {
	out := make([]Binding, len(bindings))
	bodies := 0
	for i, b := range bindings {
		switch b.Source {
		case SourceQuery:
			if b.Name == "" {
				return nil, fmt.Errorf("%w: binding %d has an empty query name", api.ErrInvalidBinding, i)
			}
		case SourceBody:
			bodies++
			if bodies > 1 {
				return nil, api.ErrMultipleBodies
			}
			if b.decode == nil {
				return nil, fmt.Errorf("%w: binding %d has no body decoder", api.ErrInvalidBinding, i)
			}
			if b.schema != "" && b.compiled == nil {
				compiled, err := compileSchema(b.schema)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", api.ErrInvalidBinding, err)
				}
				b.compiled = compiled
			}
		default:
			return nil, fmt.Errorf("%w: binding %d has unknown source %d", api.ErrInvalidBinding, i, b.Source)
		}
		out[i] = b
	}
	return out, nil
}

func (b Binding) decodeBody(body string) (any, error) {
	if b.compiled != nil {
		if err := validateSchema(b.compiled, body); err != nil {
			return nil, err
		}
	}
	return b.decode(body)
}

package binding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rhuss/restapp/pkg/api"
)

// ErrInvalidBody is returned by Bind when the body cannot be decoded into
// the bound shape.
var ErrInvalidBody = errors.New("invalid body")

// MissingError lists every absent query parameter in declaration order.
type MissingError struct {
	Names []string
}

// Error returns the client-facing message.
func (e *MissingError) Error() string {
	return "Missing query parameters: " + strings.Join(e.Names, ", ")
}

// Bind evaluates bindings against req in declaration order.
//
// Missing query parameters are collected and reported together as a
// *MissingError. A body that fails to decode aborts immediately with an
// error wrapping ErrInvalidBody, even if earlier query bindings were
// missing.
func Bind(req *api.Request, bindings []Binding) (Args, error) {
	args := make(Args, len(bindings))
	var missing []string
	for i, b := range bindings {
		switch b.Source {
		case SourceQuery:
			raw, ok := req.Query(b.Name)
			if !ok {
				missing = append(missing, b.Name)
				continue
			}
			args[i] = Coerce(raw)
		case SourceBody:
			v, err := b.decodeBody(req.Body)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
			}
			args[i] = v
		}
	}
	if len(missing) > 0 {
		return nil, &MissingError{Names: missing}
	}
	return args, nil
}

package svgconv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedElement is returned by Enter for element kinds
	// which can't be created in the given parent.
	ErrUnsupportedElement = errors.New("unsupported element")

	// ErrUnexpectedElement is wrapped by UnexpectedElementError.
	ErrUnexpectedElement = errors.New("unexpected referenced element")
)

// UnexpectedElementError is returned when a reference points to an
// element of the wrong kind, for instance a fill referencing a rectangle.
type UnexpectedElementError struct {
	ID       string // id of the referenced element
	Name     string // tag of the referenced element
	Expected []ElementKind
}

func (e *UnexpectedElementError) Error() string {
	kinds := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		kinds[i] = k.String()
	}
	return fmt.Sprintf("%s: <%s id=%q> is not one of [%s]", ErrUnexpectedElement,
		e.Name, e.ID, strings.Join(kinds, ", "))
}

func (e *UnexpectedElementError) Unwrap() error { return ErrUnexpectedElement }

package scene

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("scene parse error")

// ParseError aborts a load: a line needs an entity, component or value that is missing.
type ParseError struct {
	Path   string
	Line   int
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s:%d: %s: %s", e.Path, e.Line, e.Token, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

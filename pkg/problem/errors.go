package problem

import (
	"errors"
	"fmt"
)

var (
	ErrOpen              = errors.New("problem: cannot open file")
	ErrUnexpectedEOF     = errors.New("unexpected end of data")
	ErrInvalidToken      = errors.New("invalid numeric token")
	ErrInvalidDimensions = errors.New("invalid problem dimensions")
	ErrUnknownVariant    = errors.New("problem: unknown variant")
	ErrBlockLeased       = errors.New("problem: parameter block already leased")
	ErrClosed            = errors.New("problem: closed")
)

// ParseError describes the first field that failed to load. The whole load is
// abandoned when one is returned; no partially filled Problem escapes.
type ParseError struct {
	Field  string // schema field name, e.g. "observations"
	View   int    // view index for per-view fields, -1 otherwise
	Index  int    // element index within the field block
	Offset int64  // byte offset of the failing token (or end of data)
	Line   int
	Token  string
	Err    error
}

func (e *ParseError) Error() string {
	where := e.Field
	if e.View >= 0 {
		where = fmt.Sprintf("%s[view %d]", e.Field, e.View)
	}
	if e.Token != "" {
		return fmt.Sprintf("invalid data file: %s element %d at line %d (offset %d): %v: %q",
			where, e.Index, e.Line, e.Offset, e.Err, e.Token)
	}
	return fmt.Sprintf("invalid data file: %s element %d at line %d (offset %d): %v",
		where, e.Index, e.Line, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

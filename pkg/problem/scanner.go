package problem

import (
	"errors"
	"strconv"
)

// Scanner pulls whitespace-delimited numeric tokens from an in-memory copy
// (or mapping) of a problem file. It never copies the underlying bytes.
type Scanner struct {
	data []byte
	pos  int
	line int
}

// tokenError is what the scanner reports; the loader attaches field context.
type tokenError struct {
	offset int64
	line   int
	token  string
	err    error
}

func (e *tokenError) Error() string {
	if e.token == "" {
		return e.err.Error()
	}
	return e.err.Error() + ": " + strconv.Quote(e.token)
}

func (e *tokenError) Unwrap() error { return e.err }

// NewScanner positions a scanner on the first token of data.
func NewScanner(data []byte) *Scanner {
	s := &Scanner{data: data, line: 1}
	s.skipSpace()
	return s
}

// Offset returns the byte offset of the next token.
func (s *Scanner) Offset() int64 { return int64(s.pos) }

// Line returns the 1-based line of the next token.
func (s *Scanner) Line() int { return s.line }

// Remaining reports whether any token is left.
func (s *Scanner) Remaining() bool { return s.pos < len(s.data) }

// ReadInt consumes the next token as a base-10 integer.
func (s *Scanner) ReadInt() (int, error) {
	off, line, tok, err := s.next()
	if err != nil {
		return 0, err
	}
	v, perr := strconv.Atoi(tok)
	if perr != nil {
		return 0, &tokenError{offset: off, line: line, token: tok, err: ErrInvalidToken}
	}
	return v, nil
}

// ReadFloat consumes the next token as an IEEE double. Out-of-range values
// saturate to ±Inf or zero the way strtod does.
func (s *Scanner) ReadFloat() (float64, error) {
	off, line, tok, err := s.next()
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseFloat(tok, 64)
	if perr != nil && !errors.Is(perr, strconv.ErrRange) {
		return 0, &tokenError{offset: off, line: line, token: tok, err: ErrInvalidToken}
	}
	return v, nil
}

// ReadFloats fills dst in order, stopping at the first failure. It returns the
// number of values stored.
func (s *Scanner) ReadFloats(dst []float64) (int, error) {
	for i := range dst {
		v, err := s.ReadFloat()
		if err != nil {
			return i, err
		}
		dst[i] = v
	}
	return len(dst), nil
}

func (s *Scanner) next() (int64, int, string, error) {
	if s.pos >= len(s.data) {
		return int64(s.pos), s.line, "", &tokenError{offset: int64(s.pos), line: s.line, err: ErrUnexpectedEOF}
	}
	start, line := s.pos, s.line
	for s.pos < len(s.data) && !isSpace(s.data[s.pos]) {
		s.pos++
	}
	tok := string(s.data[start:s.pos])
	s.skipSpace()
	return int64(start), line, tok, nil
}

func (s *Scanner) skipSpace() {
	for s.pos < len(s.data) && isSpace(s.data[s.pos]) {
		if s.data[s.pos] == '\n' {
			s.line++
		}
		s.pos++
	}
}

// isSpace matches the C locale isspace set.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

package confl

import "fmt"

// ErrorKind discriminates the reasons a decode can fail, per spec §7.
type ErrorKind int8

const (
	// InputTypeError means decode was given a non-string input.
	InputTypeError ErrorKind = iota
	// InvalidKey means a key head did not match [A-Za-z0-9_-]+.
	InvalidKey
	// UnclosedArray means a multi-line array had no closing ']', or an
	// inline array body had unbalanced brackets.
	UnclosedArray
	// UnexpectedCloseBracket means a stray ']' appeared in an inline
	// array body.
	UnexpectedCloseBracket
	// UnclosedString means a quoted string inside an inline array body
	// had no closing quote.
	UnclosedString
	// UnclosedBlockString means EOF was reached before a block string's
	// closing """.
	UnclosedBlockString
	// ImportError means a filesystem or decode failure occurred while
	// resolving an import.
	ImportError
	// ImportShapeError means '@@' was applied to a file whose root is
	// not a single-array-valued object.
	ImportShapeError
	// ImportCycle means an import directive referenced a file that is
	// already being decoded somewhere up the import chain.
	ImportCycle
)

// DecodeError is the single error type produced by [Decode]. It carries
// the failure reason plus, when known, the 1-based source line and the
// raw (untrimmed) content of that line.
type DecodeError struct {
	Kind        ErrorKind
	Reason      string
	LineNumber  int // 1-based; 0 means unknown
	LineContent string
}

func (e *DecodeError) Error() string {
	if e.LineNumber <= 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s at line %d: %q", e.Reason, e.LineNumber, e.LineContent)
}

func newError(kind ErrorKind, reason string, lineNumber int, lineContent string) *DecodeError {
	return &DecodeError{Kind: kind, Reason: reason, LineNumber: lineNumber, LineContent: lineContent}
}

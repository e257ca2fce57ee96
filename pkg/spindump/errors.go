package spindump

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedReport is returned by [Parse] when the input ends before
	// the fixed report preamble and process section are complete.
	ErrTruncatedReport = errors.New("unexpected end of report")

	// ErrBlankLine is returned by [Parse] when a section is expected but the
	// current line is blank. Well-formed reports never start a section on a
	// blank line.
	ErrBlankLine = errors.New("section starts on a blank line")

	// ErrMissingColon is returned by [Parse] when an attribute line has no
	// colon separator. Separator rules ("---") and the format banner are
	// skipped before this check.
	ErrMissingColon = errors.New("attribute line has no colon")

	// ErrNoSampleCount is returned by [Parse] when a thread line contains no
	// run of decimal digits. Every frame line carries its sample count.
	ErrNoSampleCount = errors.New("frame line has no sample count")

	// ErrOddIndent is returned by [Parse] when a frame's sample count starts
	// at an odd column. Heavy format indents stacks two columns per level.
	ErrOddIndent = errors.New("frame indentation is not a multiple of two")

	// ErrSecondRoot is returned by [Parse] when a thread section opens a
	// second top-level frame. A thread has exactly one root.
	ErrSecondRoot = errors.New("thread has more than one root frame")
)

// ParseError reports a malformed report line together with its position.
// It wraps one of the package sentinel errors, so callers can classify
// failures with [errors.Is] while still seeing the offending text.
type ParseError struct {
	Line    string // offending line, verbatim
	LineNum int    // 1-based position in the input
	Err     error  // underlying cause
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v", e.LineNum, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

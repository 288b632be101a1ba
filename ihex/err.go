package ihex

import (
	"errors"

	"github.com/ezrec/z80/translate"
)

var f = translate.From

var (
	// Record errors
	ErrRecordMark     = errors.New(f("record mark ':' missing"))
	ErrRecordHex      = errors.New(f("record hex digits invalid"))
	ErrRecordShort    = errors.New(f("record too short"))
	ErrRecordLength   = errors.New(f("record length mismatch"))
	ErrRecordChecksum = errors.New(f("record checksum mismatch"))
	ErrRecordType     = errors.New(f("record type unknown"))
	ErrRecordSize     = errors.New(f("record data size invalid for type"))

	// Image errors
	ErrSegmentOverlap = errors.New(f("segments overlap"))
)

// ErrLine is a parse failure at a line of the input.
type ErrLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrLine) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrLine) Unwrap() error {
	return err.Err
}

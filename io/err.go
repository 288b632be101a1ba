package io

import (
	"errors"

	"github.com/ezrec/z80/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrMemoryOverflow = errors.New(f("image exceeds 64K address space"))

	// Recorder errors
	ErrEventType      = errors.New(f("bus event type unknown"))
	ErrEventTruncated = errors.New(f("bus event truncated"))
)

// ErrEvent is a bus event decode failure at a record index.
type ErrEvent struct {
	Index int
	Err   error
}

func (err *ErrEvent) Error() string {
	return f("event %d: %v", err.Index, err.Err)
}

func (err *ErrEvent) Unwrap() error {
	return err.Err
}

package emulator

import (
	"errors"

	"github.com/ezrec/z80/translate"
)

var f = translate.From

var (
	ErrCycleLimit = errors.New(f("cycle limit exceeded"))
	ErrBreak      = errors.New(f("break requested"))
)

// ErrRuntime indicates the program counter at a runtime error.
type ErrRuntime struct {
	PC  uint16
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc %04X %v", err.PC, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrLoad indicates the image that failed to load.
type ErrLoad struct {
	Name string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("load %v: %v", err.Name, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

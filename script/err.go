package script

import (
	"errors"

	"github.com/ezrec/z80/translate"
)

var f = translate.From

var (
	ErrResultType = errors.New(f("call-out result is not an int"))
	ErrReentered  = errors.New(f("execute already running"))
	ErrFrozen     = errors.New(f("cannot set field of frozen Z80"))
)

// ErrCallout is a failure of a Starlark call-out made by the CPU.
type ErrCallout struct {
	Name string
	Err  error
}

func (err *ErrCallout) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrCallout) Unwrap() error {
	return err.Err
}

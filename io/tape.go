package io

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/z80/cpu"
)

// Tape ports, relative to the base the tape is attached at.
const (
	TAPE_DATA   = 0 // Read the next input byte, or write an output byte.
	TAPE_STATUS = 1 // Read the status bits.
)

// Tape status bits.
const (
	TAPE_STATUS_READY = uint8(1 << 0) // An input byte is waiting.
	TAPE_STATUS_EOF   = uint8(1 << 1) // Input is exhausted.
	TAPE_STATUS_ERROR = uint8(1 << 7) // An input or output error occurred.
)

// Tape is a byte stream console on a pair of ports. The low bit of the
// port number selects data or status.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
	source io.Reader
	err    error
}

var _ Port = (*Tape)(nil)

// Defines returns the symbolic constants of the tape.
func (tc *Tape) Defines() iter.Seq2[string, int] {
	return maps.All(map[string]int{
		"TAPE_DATA":         TAPE_DATA,
		"TAPE_STATUS":       TAPE_STATUS,
		"TAPE_STATUS_READY": int(TAPE_STATUS_READY),
		"TAPE_STATUS_EOF":   int(TAPE_STATUS_EOF),
		"TAPE_STATUS_ERROR": int(TAPE_STATUS_ERROR),
	})
}

// Err returns the first error, other than end of input, seen by the tape.
func (tc *Tape) Err() error {
	return tc.err
}

func (tc *Tape) input() *bufio.Reader {
	if tc.Input == nil {
		return nil
	}
	if tc.reader == nil || tc.source != tc.Input {
		tc.reader = bufio.NewReader(tc.Input)
		tc.source = tc.Input
	}
	return tc.reader
}

func (tc *Tape) setErr(err error) {
	if err != nil && !errors.Is(err, io.EOF) && tc.err == nil {
		tc.err = err
	}
}

// In reads the next input byte, or the status.
func (tc *Tape) In(port uint16) (value uint8) {
	reader := tc.input()

	if port&1 == TAPE_STATUS {
		if tc.err != nil {
			value |= TAPE_STATUS_ERROR
		}
		if reader == nil {
			value |= TAPE_STATUS_EOF
			return
		}
		_, err := reader.Peek(1)
		if err != nil {
			tc.setErr(err)
			value |= TAPE_STATUS_EOF
		} else {
			value |= TAPE_STATUS_READY
		}
		return
	}

	if reader == nil {
		return cpu.OPEN_BUS
	}

	value, err := reader.ReadByte()
	if err != nil {
		tc.setErr(err)
		value = cpu.OPEN_BUS
	}

	return
}

// Out writes an output byte. Writes to the status port are ignored.
func (tc *Tape) Out(port uint16, value uint8) {
	if port&1 != TAPE_DATA || tc.Output == nil {
		return
	}

	_, err := tc.Output.Write([]byte{value})
	tc.setErr(err)
}

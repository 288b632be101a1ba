package io

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/z80/cpu"
)

type failWriter struct{}

var errFail = errors.New("fail")

func (fw failWriter) Write(data []byte) (int, error) {
	return 0, errFail
}

func TestTape(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{
		Input:  strings.NewReader("hi"),
		Output: output,
	}

	assert.Equal(TAPE_STATUS_READY, tape.In(TAPE_STATUS))
	assert.Equal(uint8('h'), tape.In(TAPE_DATA))
	assert.Equal(TAPE_STATUS_READY, tape.In(0x81))
	assert.Equal(uint8('i'), tape.In(0x80))
	assert.Equal(TAPE_STATUS_EOF, tape.In(TAPE_STATUS))
	assert.Equal(cpu.OPEN_BUS, tape.In(TAPE_DATA))
	assert.NoError(tape.Err())

	tape.Out(TAPE_DATA, 'o')
	tape.Out(TAPE_STATUS, 'x')
	tape.Out(0x10, 'k')
	assert.Equal("ok", output.String())

	// A new input stream replaces the old one.
	tape.Input = strings.NewReader("z")
	assert.Equal(uint8('z'), tape.In(TAPE_DATA))
}

func TestTape_Unattached(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.Equal(TAPE_STATUS_EOF, tape.In(TAPE_STATUS))
	assert.Equal(cpu.OPEN_BUS, tape.In(TAPE_DATA))
	tape.Out(TAPE_DATA, 1)

	tape.Output = failWriter{}
	tape.Out(TAPE_DATA, 1)
	assert.ErrorIs(tape.Err(), errFail)
	assert.Equal(TAPE_STATUS_ERROR|TAPE_STATUS_EOF, tape.In(TAPE_STATUS))
}

func TestTape_Defines(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	defines := map[string]int{}
	for name, value := range tape.Defines() {
		defines[name] = value
	}
	assert.Equal(1, defines["TAPE_STATUS"])
	assert.Equal(2, defines["TAPE_STATUS_EOF"])
}

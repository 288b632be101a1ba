package io

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/z80/cpu"
)

type latch struct {
	value uint8
	ports []uint16
}

func (lt *latch) In(port uint16) uint8 {
	lt.ports = append(lt.ports, port)
	return lt.value
}

func (lt *latch) Out(port uint16, value uint8) {
	lt.ports = append(lt.ports, port)
	lt.value = value
}

func TestPorts(t *testing.T) {
	assert := assert.New(t)

	var ps Ports
	low := &latch{value: 0x11}
	rest := &latch{value: 0x22}

	ps.Attach(0x10, 0xfe, low)
	ps.Attach(0x00, 0x00, rest)

	assert.Equal(uint8(0x11), ps.In(0x10))
	assert.Equal(uint8(0x11), ps.In(0x11))
	assert.Equal(uint8(0x22), ps.In(0x12))

	ps.Out(0x11, 0x33)
	assert.Equal(uint8(0x33), low.value)
	assert.Equal([]uint16{0x10, 0x11, 0x11}, low.ports)

	ps.Detach()
	assert.Equal(cpu.OPEN_BUS, ps.In(0x10))
	ps.Out(0x10, 0)
	assert.Equal(uint8(0x33), low.value)
}

func TestBus_Program(t *testing.T) {
	assert := assert.New(t)

	bus := &Bus{}
	console := &latch{}
	bus.Attach(0x01, 0xff, console)

	// LD A,0x41 ; OUT (0x01),A ; LD (0x8000),A ; HALT
	assert.NoError(bus.Load(0, []byte{0x3e, 0x41, 0xd3, 0x01, 0x32, 0x00, 0x80, 0x76}))
	assert.NoError(bus.Protect(0, 0x100))

	z80 := cpu.NewCpu(bus, false)
	z80.Execute(7 + 11 + 13 + 4)

	assert.True(z80.Registers().Halted)
	assert.Equal(uint8(0x41), console.value)
	assert.Equal(uint8(0x41), bus.Read(0x8000))
}

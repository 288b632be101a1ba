// Package io provides the devices of a small Z80 machine: a 64K memory
// with write protected ROM regions, a port dispatcher, a byte stream tape
// console, a periodic interrupt timer, and a bus recorder.
package io

import (
	"github.com/ezrec/z80/cpu"
)

// Port is a device attached to the I/O space.
type Port interface {
	In(port uint16) uint8
	Out(port uint16, value uint8)
}

// Interrupter is the interrupt request line of a CPU.
type Interrupter interface {
	GenerateIRQ(vector uint8)
}

var _ Interrupter = (*cpu.Cpu)(nil)

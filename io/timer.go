package io

import (
	"iter"
	"maps"
)

// Timer control bits, written to the timer port.
const (
	TIMER_ENABLE = uint8(1 << 0) // Count and raise interrupts.
	TIMER_NMI    = uint8(1 << 1) // Raise a non-maskable interrupt instead.
)

// NmiInterrupter is the non-maskable interrupt line of a CPU.
type NmiInterrupter interface {
	GenerateNMI(addr uint16)
}

// Timer raises an interrupt every Period T-states. It is clocked by Tick,
// usually installed as the CPU consume clock observer.
type Timer struct {
	Period  int    // T-states between interrupts.
	Vector  uint8  // Data bus vector of the maskable interrupt.
	Address uint16 // Entry address of the non-maskable interrupt.
	Control uint8  // TIMER_ENABLE | TIMER_NMI

	Target Interrupter // CPU receiving the interrupts.

	Fired int // Interrupts raised since the last read of the timer port.

	count int
}

var _ Port = (*Timer)(nil)

// Defines returns the symbolic constants of the timer.
func (tm *Timer) Defines() iter.Seq2[string, int] {
	return maps.All(map[string]int{
		"TIMER_ENABLE": int(TIMER_ENABLE),
		"TIMER_NMI":    int(TIMER_NMI),
	})
}

// Reset stops the timer and clears the count.
func (tm *Timer) Reset() {
	tm.Control = 0
	tm.Fired = 0
	tm.count = 0
}

// Tick advances the timer by cycles T-states.
func (tm *Timer) Tick(cycles int) {
	if tm.Control&TIMER_ENABLE == 0 || tm.Period <= 0 || tm.Target == nil {
		return
	}

	tm.count += cycles
	for tm.count >= tm.Period {
		tm.count -= tm.Period
		tm.Fired++
		if nmi, ok := tm.Target.(NmiInterrupter); ok && tm.Control&TIMER_NMI != 0 {
			nmi.GenerateNMI(tm.Address)
		} else {
			tm.Target.GenerateIRQ(tm.Vector)
		}
	}
}

// In returns and clears the number of interrupts raised, saturated to 255.
func (tm *Timer) In(port uint16) (value uint8) {
	value = uint8(min(tm.Fired, 0xff))
	tm.Fired = 0
	return
}

// Out sets the control bits.
func (tm *Timer) Out(port uint16, value uint8) {
	tm.Control = value
	if value&TIMER_ENABLE == 0 {
		tm.count = 0
	}
}

package cpu

import (
	"fmt"
	"strings"
)

// Interrupt flip-flop bits of Registers.IFF
const (
	IFF_1 = uint8(1 << 0) // Maskable interrupts enabled.
	IFF_2 = uint8(1 << 1) // Saved IFF_1 across an NMI.
)

// RegisterSet is one bank of the general purpose registers.
// The primary and alternate banks share the layout.
type RegisterSet struct {
	A, F, B, C, D, E, H, L uint8
}

func word(hi, lo uint8) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func (rs RegisterSet) AF() uint16 { return word(rs.A, rs.F) }
func (rs RegisterSet) BC() uint16 { return word(rs.B, rs.C) }
func (rs RegisterSet) DE() uint16 { return word(rs.D, rs.E) }
func (rs RegisterSet) HL() uint16 { return word(rs.H, rs.L) }

func (rs *RegisterSet) SetAF(value uint16) { rs.A, rs.F = uint8(value>>8), uint8(value) }
func (rs *RegisterSet) SetBC(value uint16) { rs.B, rs.C = uint8(value>>8), uint8(value) }
func (rs *RegisterSet) SetDE(value uint16) { rs.D, rs.E = uint8(value>>8), uint8(value) }
func (rs *RegisterSet) SetHL(value uint16) { rs.H, rs.L = uint8(value>>8), uint8(value) }

// Registers is the architectural state of the CPU.
//
// Cpu.Registers returns a copy; changing it does not affect the CPU.
type Registers struct {
	Pair RegisterSet // Primary bank.
	Back RegisterSet // Alternate bank, swapped in by EX AF,AF' and EXX.

	PC uint16 // Program counter.
	SP uint16 // Stack pointer.
	IX uint16 // Index register X.
	IY uint16 // Index register Y.
	WZ uint16 // Internal scratch register (MEMPTR).

	R uint8 // Memory refresh counter.
	I uint8 // Interrupt page.

	IFF uint8 // Interrupt flip-flops, IFF_1 | IFF_2.
	IM  uint8 // Interrupt mode, 0 to 2.

	InterruptVector uint8  // Vector byte of the last accepted mode 2 interrupt.
	InterruptAddrN  uint16 // Entry address latched by the last NMI request.

	Halted bool // Set while idling in HALT.
}

// ExchangeAF swaps AF with AF'.
func (reg *Registers) ExchangeAF() {
	reg.Pair.A, reg.Back.A = reg.Back.A, reg.Pair.A
	reg.Pair.F, reg.Back.F = reg.Back.F, reg.Pair.F
}

// ExchangeAll swaps BC, DE and HL with their alternates.
func (reg *Registers) ExchangeAll() {
	p, b := &reg.Pair, &reg.Back
	p.B, b.B = b.B, p.B
	p.C, b.C = b.C, p.C
	p.D, b.D = b.D, p.D
	p.E, b.E = b.E, p.E
	p.H, b.H = b.H, p.H
	p.L, b.L = b.L, p.L
}

// Flags returns the F register rendered as "SZYHXPNC", with '.' for clear bits.
func (reg Registers) Flags() string {
	const names = "CNPXHYZS"

	var sb strings.Builder
	for bit := 7; bit >= 0; bit-- {
		if reg.Pair.F&(1<<bit) != 0 {
			sb.WriteByte(names[bit])
		} else {
			sb.WriteByte('.')
		}
	}

	return sb.String()
}

func (reg Registers) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X AF'=%04X BC'=%04X DE'=%04X HL'=%04X IX=%04X IY=%04X SP=%04X PC=%04X I=%02X R=%02X IM%d IFF=%d %s",
		reg.Pair.AF(), reg.Pair.BC(), reg.Pair.DE(), reg.Pair.HL(),
		reg.Back.AF(), reg.Back.BC(), reg.Back.DE(), reg.Back.HL(),
		reg.IX, reg.IY, reg.SP, reg.PC, reg.I, reg.R, reg.IM, reg.IFF, reg.Flags())
}

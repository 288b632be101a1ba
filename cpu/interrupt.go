package cpu

import (
	"log"
)

// Interrupt acknowledge costs, in T-states.
const (
	NMI_CYCLES  = 11
	IM0_CYCLES  = 2 // Added to the cost of the instruction on the data bus.
	IM1_CYCLES  = 13
	IM2_CYCLES  = 19
	HALT_CYCLES = 4 // Idle cycle while halted.
)

// GenerateNMI requests a non-maskable interrupt entering at addr.
// A second request before the first is serviced replaces the address.
// Real hardware always enters at NMI_ADDRESS.
func (cpu *Cpu) GenerateNMI(addr uint16) {
	cpu.nmiAddress.Store(uint32(addr))
	cpu.nmiPending.Store(true)
}

// GenerateIRQ requests a maskable interrupt with the vector byte placed
// on the data bus. A second request before the first is serviced replaces
// the vector. The request stays pending while interrupts are disabled.
func (cpu *Cpu) GenerateIRQ(vector uint8) {
	cpu.irqVector.Store(uint32(vector))
	cpu.irqPending.Store(true)
}

// interrupt services a pending interrupt at an instruction boundary.
func (cpu *Cpu) interrupt() (cycles int, ok bool) {
	delayed := cpu.eiDelay
	cpu.eiDelay = false

	if cpu.nmiPending.Swap(false) {
		cycles = cpu.serviceNmi(uint16(cpu.nmiAddress.Load()))
		ok = true
		return
	}

	if delayed || cpu.reg.IFF&IFF_1 == 0 {
		return
	}

	if !cpu.irqPending.CompareAndSwap(true, false) {
		return
	}

	cycles = cpu.serviceIrq(uint8(cpu.irqVector.Load()))
	ok = true

	return
}

func (cpu *Cpu) serviceNmi(addr uint16) int {
	if cpu.Verbose {
		log.Printf("cpu: nmi at %04X to %04X", cpu.reg.PC, addr)
	}

	cpu.trace.note = "NMI"
	cpu.refresh()
	cpu.reg.Halted = false
	cpu.reg.IFF &^= IFF_1
	cpu.reg.InterruptAddrN = addr
	cpu.push(cpu.reg.PC)
	cpu.reg.PC = addr
	cpu.reg.WZ = addr

	return NMI_CYCLES
}

func (cpu *Cpu) serviceIrq(vector uint8) (cycles int) {
	if cpu.Verbose {
		log.Printf("cpu: irq IM%d vector %02X at %04X", cpu.reg.IM, vector, cpu.reg.PC)
	}

	cpu.refresh()
	cpu.reg.Halted = false
	cpu.reg.IFF = 0

	switch cpu.reg.IM {
	case 0:
		cpu.trace.note = "IM0"
		// The data bus byte is run as an opcode without advancing PC.
		cpu.trace.push(vector)
		cycles = IM0_CYCLES + cpu.dispatch(vector)
	case 1:
		cpu.trace.note = "IM1"
		cpu.push(cpu.reg.PC)
		cpu.reg.PC = IM1_ADDRESS
		cpu.reg.WZ = IM1_ADDRESS
		cycles = IM1_CYCLES
	default:
		cpu.trace.note = "IM2"
		cpu.reg.InterruptVector = vector
		cpu.push(cpu.reg.PC)
		cpu.reg.PC = cpu.read16(uint16(cpu.reg.I)<<8 | uint16(vector))
		cpu.reg.WZ = cpu.reg.PC
		cycles = IM2_CYCLES
	}

	return
}

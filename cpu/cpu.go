package cpu

import (
	"iter"
	"log"
	"maps"
	"sync/atomic"
)

// Fixed entry points.
const (
	RESET_ADDRESS = uint16(0x0000) // Program counter after reset.
	IM1_ADDRESS   = uint16(0x0038) // Restart address of interrupt mode 1.
	NMI_ADDRESS   = uint16(0x0066) // Architectural non-maskable interrupt entry.
)

var _cpu_defines = map[string]int{
	"RESET_ADDRESS": int(RESET_ADDRESS),
	"IM1_ADDRESS":   int(IM1_ADDRESS),
	"NMI_ADDRESS":   int(NMI_ADDRESS),
	"OPEN_BUS":      int(OPEN_BUS),
	"FLAG_C":        int(FLAG_C),
	"FLAG_N":        int(FLAG_N),
	"FLAG_PV":       int(FLAG_PV),
	"FLAG_X":        int(FLAG_X),
	"FLAG_H":        int(FLAG_H),
	"FLAG_Y":        int(FLAG_Y),
	"FLAG_Z":        int(FLAG_Z),
	"FLAG_S":        int(FLAG_S),
	"IFF_1":         int(IFF_1),
	"IFF_2":         int(IFF_2),
}

// Cpu is the simulation context of a single Z80.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Ticks int // Total T-states consumed since creation.

	reg     Registers
	bus     Bus
	fetcher Fetcher
	port16  bool

	idx     *uint16 // Index register selected by the current DD or FD prefix.
	prefix  uint8   // DD or FD fetched behind another index prefix, run by the next step.
	ea      uint16  // Effective address of an (IX+d) operand.
	eiDelay bool    // Set by EI; blocks interrupt acceptance for one boundary.
	stopped bool    // Last Execute consumed a break request.

	breakRequest atomic.Bool
	nmiPending   atomic.Bool
	nmiAddress   atomic.Uint32
	irqPending   atomic.Bool
	irqVector    atomic.Uint32

	debugMessage func(msg string)
	consumeClock func(cycles int)

	trace trace
}

// NewCpu creates a CPU attached to a bus.
//
// If port16 is set the full 16 bit address bus is presented on port
// accesses, otherwise only the low 8 bits. No bus access is made until
// the first Execute or Step.
func NewCpu(bus Bus, port16 bool) (cpu *Cpu) {
	cpu = &Cpu{
		bus:    bus,
		port16: port16,
	}

	cpu.fetcher, _ = bus.(Fetcher)
	cpu.Reset()

	return
}

// Defines returns the symbolic constants of the CPU.
func (cpu *Cpu) Defines() iter.Seq2[string, int] {
	return maps.All(_cpu_defines)
}

// Reset puts the CPU in its power-on state and drops pending requests.
func (cpu *Cpu) Reset() {
	cpu.reg = Registers{
		Pair: RegisterSet{A: 0xff, F: 0xff},
		SP:   0xffff,
		PC:   RESET_ADDRESS,
	}
	cpu.idx = &cpu.reg.IX
	cpu.prefix = 0
	cpu.eiDelay = false
	cpu.stopped = false

	cpu.breakRequest.Store(false)
	cpu.nmiPending.Store(false)
	cpu.irqPending.Store(false)
}

// Registers returns a copy of the register file.
func (cpu *Cpu) Registers() Registers {
	return cpu.reg
}

// PC returns the program counter.
func (cpu *Cpu) PC() uint16 {
	return cpu.reg.PC
}

// SetPC sets the program counter. The CPU leaves HALT if it was halted.
func (cpu *Cpu) SetPC(pc uint16) {
	cpu.reg.PC = pc
	cpu.reg.Halted = false
	cpu.prefix = 0
}

// Port16 returns true if ports are presented with 16 bit addresses.
func (cpu *Cpu) Port16() bool {
	return cpu.port16
}

// SetDebugMessage sets the sink receiving one trace line per step.
// A nil sink disables tracing.
func (cpu *Cpu) SetDebugMessage(sink func(msg string)) {
	cpu.debugMessage = sink
}

// SetConsumeClockCallback sets the observer called with the T-states of
// every step. A nil observer removes it.
func (cpu *Cpu) SetConsumeClockCallback(observer func(cycles int)) {
	cpu.consumeClock = observer
}

// RequestBreak asks Execute to return at the next instruction boundary.
// It is safe to call from any goroutine, and from the bus or clock call-outs.
func (cpu *Cpu) RequestBreak() {
	cpu.breakRequest.Store(true)
}

// Execute runs instructions until at least cycles T-states are consumed,
// or a break is requested. It returns the T-states consumed, which exceeds
// the budget by less than the cost of the last step.
func (cpu *Cpu) Execute(cycles int) (executed int) {
	defer func() {
		cpu.stopped = cpu.breakRequest.Swap(false)
	}()

	for executed < cycles {
		if cpu.breakRequest.Load() {
			if cpu.Verbose {
				log.Printf("cpu: break at %04X after %d cycles", cpu.reg.PC, executed)
			}
			break
		}
		executed += cpu.Step()
	}

	return
}

// Stopped returns true if the last Execute consumed a break request,
// including one raised during its final step.
func (cpu *Cpu) Stopped() bool {
	return cpu.stopped
}

// Step runs one instruction, services one interrupt, or idles one HALT
// cycle. It returns the T-states consumed.
func (cpu *Cpu) Step() (cycles int) {
	cpu.trace.begin(cpu.reg.PC)

	if cpu.prefix != 0 {
		// No interrupt is accepted inside a prefix chain.
		cycles = cpu.dispatch(cpu.resumePrefix())
	} else {
		var ok bool
		cycles, ok = cpu.interrupt()
		if !ok {
			if cpu.reg.Halted {
				cpu.refresh()
				cpu.trace.ins = &haltIdle
				cycles = haltIdle.Cycles
			} else {
				cycles = cpu.dispatch(cpu.fetchOpcode())
			}
		}
	}

	cpu.Ticks += cycles

	if cpu.consumeClock != nil {
		cpu.consumeClock(cycles)
	}

	if cpu.debugMessage != nil {
		cpu.debugMessage(cpu.trace.String())
	}

	return
}

// resumePrefix returns the index prefix left pending by the last step.
func (cpu *Cpu) resumePrefix() (op uint8) {
	op = cpu.prefix
	cpu.prefix = 0
	cpu.trace.pc--
	cpu.trace.push(op)

	return
}

// dispatch decodes the prefixes starting with op, and runs the selected
// instruction. An index prefix followed by another one costs a step of
// its own.
func (cpu *Cpu) dispatch(op uint8) (cycles int) {
	var ins *Instruction

	switch op {
	case 0xcb:
		ins = &cbSet[cpu.fetchOpcode()]
	case 0xed:
		ins = &edSet[cpu.fetchOpcode()]
	case 0xdd, 0xfd:
		cpu.selectIndex(op)
		op = cpu.fetchOpcode()
		switch op {
		case 0xdd, 0xfd:
			// Only the last index prefix of a chain takes effect.
			cpu.prefix = op
			cpu.trace.size--
			cpu.trace.ins = &prefixIgnored
			return prefixIgnored.Cycles
		case 0xcb:
			cpu.ea = *cpu.idx + uint16(int16(cpu.fetchDisplacement()))
			cpu.reg.WZ = cpu.ea
			ins = &indexCbSet[cpu.fetchByte()]
		case 0xed:
			cycles += 4
			ins = &edSet[cpu.fetchOpcode()]
		default:
			ins = &indexSet[op]
		}
	default:
		ins = &mainSet[op]
	}

	if ins.exec == nil {
		panic("cpu: undefined dispatch entry")
	}

	cpu.trace.ins = ins
	cycles += ins.Cycles + ins.exec(cpu)

	return
}

func (cpu *Cpu) selectIndex(prefix uint8) {
	if prefix == 0xfd {
		cpu.idx = &cpu.reg.IY
	} else {
		cpu.idx = &cpu.reg.IX
	}
	cpu.trace.prefix = prefix
}

// refresh counts an M1 cycle in the low 7 bits of R.
func (cpu *Cpu) refresh() {
	cpu.reg.R = (cpu.reg.R & 0x80) | ((cpu.reg.R + 1) & 0x7f)
}

func (cpu *Cpu) fetchOpcode() (op uint8) {
	pc := cpu.reg.PC
	if cpu.fetcher != nil {
		op = cpu.fetcher.Fetch(pc)
	} else {
		op = cpu.bus.Read(pc)
	}
	cpu.reg.PC = pc + 1
	cpu.refresh()
	cpu.trace.push(op)

	return
}

func (cpu *Cpu) fetchByte() (value uint8) {
	value = cpu.bus.Read(cpu.reg.PC)
	cpu.reg.PC++
	cpu.trace.push(value)
	cpu.trace.n = value

	return
}

func (cpu *Cpu) fetchWord() (value uint16) {
	lo := cpu.fetchByte()
	hi := cpu.fetchByte()
	value = word(hi, lo)
	cpu.trace.nn = value

	return
}

func (cpu *Cpu) fetchDisplacement() (d int8) {
	d = int8(cpu.fetchByte())
	cpu.trace.d = d

	return
}

// fetchRelative returns the target of a relative jump.
func (cpu *Cpu) fetchRelative() (target uint16) {
	d := cpu.fetchDisplacement()
	target = cpu.reg.PC + uint16(int16(d))
	cpu.trace.e = target

	return
}

func (cpu *Cpu) read(addr uint16) uint8 {
	return cpu.bus.Read(addr)
}

func (cpu *Cpu) write(addr uint16, value uint8) {
	cpu.bus.Write(addr, value)
}

func (cpu *Cpu) read16(addr uint16) uint16 {
	lo := cpu.bus.Read(addr)
	hi := cpu.bus.Read(addr + 1)
	return word(hi, lo)
}

func (cpu *Cpu) write16(addr uint16, value uint16) {
	cpu.bus.Write(addr, uint8(value))
	cpu.bus.Write(addr+1, uint8(value>>8))
}

func (cpu *Cpu) in(port uint16) uint8 {
	if !cpu.port16 {
		port &= 0xff
	}
	return cpu.bus.In(port)
}

func (cpu *Cpu) out(port uint16, value uint8) {
	if !cpu.port16 {
		port &= 0xff
	}
	cpu.bus.Out(port, value)
}

func (cpu *Cpu) push(value uint16) {
	cpu.reg.SP--
	cpu.bus.Write(cpu.reg.SP, uint8(value>>8))
	cpu.reg.SP--
	cpu.bus.Write(cpu.reg.SP, uint8(value))
}

func (cpu *Cpu) pop() (value uint16) {
	value = cpu.read16(cpu.reg.SP)
	cpu.reg.SP += 2
	return
}

// get8 reads register r of the B, C, D, E, H, L, (HL), A encoding.
func (cpu *Cpu) get8(r uint8) uint8 {
	p := &cpu.reg.Pair
	switch r {
	case 0:
		return p.B
	case 1:
		return p.C
	case 2:
		return p.D
	case 3:
		return p.E
	case 4:
		return p.H
	case 5:
		return p.L
	case 6:
		return cpu.read(p.HL())
	default:
		return p.A
	}
}

func (cpu *Cpu) set8(r uint8, value uint8) {
	p := &cpu.reg.Pair
	switch r {
	case 0:
		p.B = value
	case 1:
		p.C = value
	case 2:
		p.D = value
	case 3:
		p.E = value
	case 4:
		p.H = value
	case 5:
		p.L = value
	case 6:
		cpu.write(p.HL(), value)
	default:
		p.A = value
	}
}

// get8x is get8 with H and L replaced by the halves of the selected index register.
func (cpu *Cpu) get8x(r uint8) uint8 {
	switch r {
	case 4:
		return uint8(*cpu.idx >> 8)
	case 5:
		return uint8(*cpu.idx)
	default:
		return cpu.get8(r)
	}
}

func (cpu *Cpu) set8x(r uint8, value uint8) {
	switch r {
	case 4:
		*cpu.idx = (*cpu.idx & 0x00ff) | uint16(value)<<8
	case 5:
		*cpu.idx = (*cpu.idx & 0xff00) | uint16(value)
	default:
		cpu.set8(r, value)
	}
}

// get16 reads register pair p of the BC, DE, HL, SP encoding.
func (cpu *Cpu) get16(p uint8) uint16 {
	switch p {
	case 0:
		return cpu.reg.Pair.BC()
	case 1:
		return cpu.reg.Pair.DE()
	case 2:
		return cpu.reg.Pair.HL()
	default:
		return cpu.reg.SP
	}
}

func (cpu *Cpu) set16(p uint8, value uint16) {
	switch p {
	case 0:
		cpu.reg.Pair.SetBC(value)
	case 1:
		cpu.reg.Pair.SetDE(value)
	case 2:
		cpu.reg.Pair.SetHL(value)
	default:
		cpu.reg.SP = value
	}
}

// get16x is get16 with HL replaced by the selected index register.
func (cpu *Cpu) get16x(p uint8) uint16 {
	if p == 2 {
		return *cpu.idx
	}
	return cpu.get16(p)
}

func (cpu *Cpu) set16x(p uint8, value uint16) {
	if p == 2 {
		*cpu.idx = value
		return
	}
	cpu.set16(p, value)
}

package cpu

import (
	"fmt"
)

var (
	imModes    = [8]uint8{0, 0, 1, 2, 0, 0, 1, 2}
	blockNames = [4][4]string{
		{"LDI", "CPI", "INI", "OUTI"},
		{"LDD", "CPD", "IND", "OUTD"},
		{"LDIR", "CPIR", "INIR", "OTIR"},
		{"LDDR", "CPDR", "INDR", "OTDR"},
	}
)

func defineEd() {
	set := &edSet

	// Unassigned ED opcodes do nothing.
	for op := range 256 {
		define(set, op, 8, "NOP", func(cpu *Cpu) int {
			return 0
		})
	}

	for op := 0x40; op < 0x80; op++ {
		_, y, z := decode(op)
		defineEdX1(set, op, y, z)
	}

	for op := 0xa0; op < 0xc0; op++ {
		_, y, z := decode(op)
		if z < 4 {
			defineEdBlock(set, op, y, z)
		}
	}
}

func defineEdX1(set *[256]Instruction, op int, y, z uint8) {
	p, q := y>>1, y&1

	switch z {
	case 0:
		name := "IN " + r8Names[y] + ",(C)"
		if y == 6 {
			name = "IN (C)"
		}
		define(set, op, 12, name, func(cpu *Cpu) int {
			port := cpu.reg.Pair.BC()
			value := cpu.in(port)
			if y != 6 {
				cpu.set8(y, value)
			}
			cpu.reg.Pair.F = (cpu.reg.Pair.F & FLAG_C) | sz53pTable[value]
			cpu.reg.WZ = port + 1
			return 0
		})
	case 1:
		name := "OUT (C)," + r8Names[y]
		if y == 6 {
			name = "OUT (C),0"
		}
		define(set, op, 12, name, func(cpu *Cpu) int {
			port := cpu.reg.Pair.BC()
			var value uint8
			if y != 6 {
				value = cpu.get8(y)
			}
			cpu.out(port, value)
			cpu.reg.WZ = port + 1
			return 0
		})
	case 2:
		if q == 0 {
			define(set, op, 15, "SBC HL,"+rpNames[p], func(cpu *Cpu) int {
				cpu.reg.Pair.SetHL(cpu.sbc16(cpu.reg.Pair.HL(), cpu.get16(p)))
				return 0
			})
		} else {
			define(set, op, 15, "ADC HL,"+rpNames[p], func(cpu *Cpu) int {
				cpu.reg.Pair.SetHL(cpu.adc16(cpu.reg.Pair.HL(), cpu.get16(p)))
				return 0
			})
		}
	case 3:
		if q == 0 {
			define(set, op, 20, "LD ({nn}),"+rpNames[p], func(cpu *Cpu) int {
				addr := cpu.fetchWord()
				cpu.write16(addr, cpu.get16(p))
				cpu.reg.WZ = addr + 1
				return 0
			})
		} else {
			define(set, op, 20, "LD "+rpNames[p]+",({nn})", func(cpu *Cpu) int {
				addr := cpu.fetchWord()
				cpu.set16(p, cpu.read16(addr))
				cpu.reg.WZ = addr + 1
				return 0
			})
		}
	case 4:
		define(set, op, 8, "NEG", func(cpu *Cpu) int {
			cpu.neg()
			return 0
		})
	case 5:
		name := "RETN"
		if y == 1 {
			name = "RETI"
		}
		define(set, op, 14, name, func(cpu *Cpu) int {
			if cpu.reg.IFF&IFF_2 != 0 {
				cpu.reg.IFF |= IFF_1
			} else {
				cpu.reg.IFF &^= IFF_1
			}
			cpu.reg.PC = cpu.pop()
			cpu.reg.WZ = cpu.reg.PC
			return 0
		})
	case 6:
		mode := imModes[y]
		define(set, op, 8, fmt.Sprintf("IM %d", mode), func(cpu *Cpu) int {
			cpu.reg.IM = mode
			return 0
		})
	default:
		defineEdX1Z7(set, op, y)
	}
}

func defineEdX1Z7(set *[256]Instruction, op int, y uint8) {
	switch y {
	case 0:
		define(set, op, 9, "LD I,A", func(cpu *Cpu) int {
			cpu.reg.I = cpu.reg.Pair.A
			return 0
		})
	case 1:
		define(set, op, 9, "LD R,A", func(cpu *Cpu) int {
			cpu.reg.R = cpu.reg.Pair.A
			return 0
		})
	case 2:
		define(set, op, 9, "LD A,I", func(cpu *Cpu) int {
			cpu.loadSpecial(cpu.reg.I)
			return 0
		})
	case 3:
		define(set, op, 9, "LD A,R", func(cpu *Cpu) int {
			cpu.loadSpecial(cpu.reg.R)
			return 0
		})
	case 4:
		define(set, op, 18, "RRD", func(cpu *Cpu) int {
			p := &cpu.reg.Pair
			addr := p.HL()
			value := cpu.read(addr)
			cpu.write(addr, p.A<<4|value>>4)
			p.A = (p.A & 0xf0) | (value & 0x0f)
			p.F = (p.F & FLAG_C) | sz53pTable[p.A]
			cpu.reg.WZ = addr + 1
			return 0
		})
	case 5:
		define(set, op, 18, "RLD", func(cpu *Cpu) int {
			p := &cpu.reg.Pair
			addr := p.HL()
			value := cpu.read(addr)
			cpu.write(addr, value<<4|p.A&0x0f)
			p.A = (p.A & 0xf0) | (value >> 4)
			p.F = (p.F & FLAG_C) | sz53pTable[p.A]
			cpu.reg.WZ = addr + 1
			return 0
		})
	}
}

// loadSpecial is LD A,I and LD A,R, which report IFF2 in PV.
func (cpu *Cpu) loadSpecial(value uint8) {
	p := &cpu.reg.Pair
	p.A = value
	p.F = (p.F & FLAG_C) | sz53Table[value]
	if cpu.reg.IFF&IFF_2 != 0 {
		p.F |= FLAG_PV
	}
}

func defineEdBlock(set *[256]Instruction, op int, y, z uint8) {
	dir := uint16(1)
	if y&1 != 0 {
		dir = 0xffff
	}
	repeat := y >= 6

	var step func(cpu *Cpu) bool
	switch z {
	case 0:
		step = func(cpu *Cpu) bool { return cpu.ldx(dir) }
	case 1:
		step = func(cpu *Cpu) bool { return cpu.cpx(dir) }
	case 2:
		step = func(cpu *Cpu) bool { return cpu.inx(dir) }
	default:
		step = func(cpu *Cpu) bool { return cpu.outx(dir) }
	}

	define(set, op, 16, blockNames[y-4][z], func(cpu *Cpu) int {
		if !step(cpu) || !repeat {
			return 0
		}
		// Run again from the ED prefix.
		cpu.reg.PC -= 2
		cpu.reg.WZ = cpu.reg.PC + 1
		return 5
	})
}

// ldx is one LDI or LDD step. It returns true while BC is not zero.
func (cpu *Cpu) ldx(dir uint16) bool {
	p := &cpu.reg.Pair

	value := cpu.read(p.HL())
	cpu.write(p.DE(), value)
	p.SetHL(p.HL() + dir)
	p.SetDE(p.DE() + dir)
	bc := p.BC() - 1
	p.SetBC(bc)

	n := value + p.A
	f := (p.F & (FLAG_S | FLAG_Z | FLAG_C)) | (n & FLAG_X) | ((n << 4) & FLAG_Y)
	if bc != 0 {
		f |= FLAG_PV
	}
	p.F = f

	return bc != 0
}

// cpx is one CPI or CPD step. It returns true while BC is not zero and
// no match was found.
func (cpu *Cpu) cpx(dir uint16) bool {
	p := &cpu.reg.Pair

	value := cpu.read(p.HL())
	res := p.A - value
	half := (p.A ^ value ^ res) & FLAG_H
	p.SetHL(p.HL() + dir)
	bc := p.BC() - 1
	p.SetBC(bc)
	cpu.reg.WZ += dir

	n := res
	if half != 0 {
		n--
	}
	f := (p.F & FLAG_C) | FLAG_N | (res & FLAG_S) | half | (n & FLAG_X) | ((n << 4) & FLAG_Y)
	if res == 0 {
		f |= FLAG_Z
	}
	if bc != 0 {
		f |= FLAG_PV
	}
	p.F = f

	return bc != 0 && res != 0
}

// inx is one INI or IND step. It returns true while B is not zero.
func (cpu *Cpu) inx(dir uint16) bool {
	p := &cpu.reg.Pair

	port := p.BC()
	value := cpu.in(port)
	cpu.write(p.HL(), value)
	cpu.reg.WZ = port + dir
	p.B--
	p.SetHL(p.HL() + dir)

	cpu.blockIoFlags(value, uint16(value)+uint16(p.C+uint8(dir)))

	return p.B != 0
}

// outx is one OUTI or OUTD step. It returns true while B is not zero.
func (cpu *Cpu) outx(dir uint16) bool {
	p := &cpu.reg.Pair

	value := cpu.read(p.HL())
	p.B--
	port := p.BC()
	cpu.out(port, value)
	cpu.reg.WZ = port + dir
	p.SetHL(p.HL() + dir)

	cpu.blockIoFlags(value, uint16(value)+uint16(p.L))

	return p.B != 0
}

func (cpu *Cpu) blockIoFlags(value uint8, k uint16) {
	p := &cpu.reg.Pair

	f := sz53Table[p.B] | parityTable[uint8(k&7)^p.B]
	if value&0x80 != 0 {
		f |= FLAG_N
	}
	if k > 0xff {
		f |= FLAG_H | FLAG_C
	}
	p.F = f
}

package cpu

import (
	"fmt"
)

func defineMain() {
	set := &mainSet

	for op := range 256 {
		x, y, z := decode(op)
		switch x {
		case 0:
			defineMainX0(set, op, y, z)
		case 1:
			if op == 0x76 {
				define(set, op, 4, "HALT", func(cpu *Cpu) int {
					cpu.reg.Halted = true
					return 0
				})
				continue
			}
			cycles := withMemory(y, withMemory(z, 4, 7), 7)
			define(set, op, cycles, "LD "+r8Names[y]+","+r8Names[z], func(cpu *Cpu) int {
				cpu.set8(y, cpu.get8(z))
				return 0
			})
		case 2:
			define(set, op, withMemory(z, 4, 7), aluNames[y]+r8Names[z], func(cpu *Cpu) int {
				cpu.alu(y, cpu.get8(z))
				return 0
			})
		default:
			defineMainX3(set, op, y, z)
		}
	}
}

func defineMainX0(set *[256]Instruction, op int, y, z uint8) {
	p, q := y>>1, y&1

	switch z {
	case 0:
		switch y {
		case 0:
			define(set, op, 4, "NOP", func(cpu *Cpu) int {
				return 0
			})
		case 1:
			define(set, op, 4, "EX AF,AF'", func(cpu *Cpu) int {
				cpu.reg.ExchangeAF()
				return 0
			})
		case 2:
			define(set, op, 8, "DJNZ {e}", func(cpu *Cpu) int {
				target := cpu.fetchRelative()
				cpu.reg.Pair.B--
				if cpu.reg.Pair.B == 0 {
					return 0
				}
				cpu.reg.PC = target
				cpu.reg.WZ = target
				return 5
			})
		case 3:
			define(set, op, 12, "JR {e}", func(cpu *Cpu) int {
				target := cpu.fetchRelative()
				cpu.reg.PC = target
				cpu.reg.WZ = target
				return 0
			})
		default:
			cc := y - 4
			define(set, op, 7, "JR "+ccNames[cc]+",{e}", func(cpu *Cpu) int {
				target := cpu.fetchRelative()
				if !cpu.cond(cc) {
					return 0
				}
				cpu.reg.PC = target
				cpu.reg.WZ = target
				return 5
			})
		}
	case 1:
		if q == 0 {
			define(set, op, 10, "LD "+rpNames[p]+",{nn}", func(cpu *Cpu) int {
				cpu.set16(p, cpu.fetchWord())
				return 0
			})
		} else {
			define(set, op, 11, "ADD HL,"+rpNames[p], func(cpu *Cpu) int {
				cpu.reg.Pair.SetHL(cpu.add16(cpu.reg.Pair.HL(), cpu.get16(p)))
				return 0
			})
		}
	case 2:
		defineMainLoadStore(set, op, y)
	case 3:
		if q == 0 {
			define(set, op, 6, "INC "+rpNames[p], func(cpu *Cpu) int {
				cpu.set16(p, cpu.get16(p)+1)
				return 0
			})
		} else {
			define(set, op, 6, "DEC "+rpNames[p], func(cpu *Cpu) int {
				cpu.set16(p, cpu.get16(p)-1)
				return 0
			})
		}
	case 4:
		define(set, op, withMemory(y, 4, 11), "INC "+r8Names[y], func(cpu *Cpu) int {
			cpu.set8(y, cpu.inc8(cpu.get8(y)))
			return 0
		})
	case 5:
		define(set, op, withMemory(y, 4, 11), "DEC "+r8Names[y], func(cpu *Cpu) int {
			cpu.set8(y, cpu.dec8(cpu.get8(y)))
			return 0
		})
	case 6:
		define(set, op, withMemory(y, 7, 10), "LD "+r8Names[y]+",{n}", func(cpu *Cpu) int {
			cpu.set8(y, cpu.fetchByte())
			return 0
		})
	default:
		switch y {
		case 4:
			define(set, op, 4, "DAA", func(cpu *Cpu) int {
				cpu.daa()
				return 0
			})
		case 5:
			define(set, op, 4, "CPL", func(cpu *Cpu) int {
				cpu.cpl()
				return 0
			})
		case 6:
			define(set, op, 4, "SCF", func(cpu *Cpu) int {
				cpu.scf()
				return 0
			})
		case 7:
			define(set, op, 4, "CCF", func(cpu *Cpu) int {
				cpu.ccf()
				return 0
			})
		default:
			define(set, op, 4, rotANames[y], func(cpu *Cpu) int {
				cpu.rotA(y)
				return 0
			})
		}
	}
}

// defineMainLoadStore fills the LD (rp),A / LD A,(rp) / LD (nn) column.
func defineMainLoadStore(set *[256]Instruction, op int, y uint8) {
	switch y {
	case 0, 2:
		p := y >> 1
		define(set, op, 7, "LD ("+rpNames[p]+"),A", func(cpu *Cpu) int {
			addr := cpu.get16(p)
			cpu.write(addr, cpu.reg.Pair.A)
			cpu.reg.WZ = uint16(cpu.reg.Pair.A)<<8 | (addr+1)&0xff
			return 0
		})
	case 1, 3:
		p := y >> 1
		define(set, op, 7, "LD A,("+rpNames[p]+")", func(cpu *Cpu) int {
			addr := cpu.get16(p)
			cpu.reg.Pair.A = cpu.read(addr)
			cpu.reg.WZ = addr + 1
			return 0
		})
	case 4:
		define(set, op, 16, "LD ({nn}),HL", func(cpu *Cpu) int {
			addr := cpu.fetchWord()
			cpu.write16(addr, cpu.reg.Pair.HL())
			cpu.reg.WZ = addr + 1
			return 0
		})
	case 5:
		define(set, op, 16, "LD HL,({nn})", func(cpu *Cpu) int {
			addr := cpu.fetchWord()
			cpu.reg.Pair.SetHL(cpu.read16(addr))
			cpu.reg.WZ = addr + 1
			return 0
		})
	case 6:
		define(set, op, 13, "LD ({nn}),A", func(cpu *Cpu) int {
			addr := cpu.fetchWord()
			cpu.write(addr, cpu.reg.Pair.A)
			cpu.reg.WZ = uint16(cpu.reg.Pair.A)<<8 | (addr+1)&0xff
			return 0
		})
	default:
		define(set, op, 13, "LD A,({nn})", func(cpu *Cpu) int {
			addr := cpu.fetchWord()
			cpu.reg.Pair.A = cpu.read(addr)
			cpu.reg.WZ = addr + 1
			return 0
		})
	}
}

func defineMainX3(set *[256]Instruction, op int, y, z uint8) {
	p, q := y>>1, y&1

	switch z {
	case 0:
		define(set, op, 5, "RET "+ccNames[y], func(cpu *Cpu) int {
			if !cpu.cond(y) {
				return 0
			}
			cpu.reg.PC = cpu.pop()
			cpu.reg.WZ = cpu.reg.PC
			return 6
		})
	case 1:
		if q == 0 {
			define(set, op, 10, "POP "+rp2Names[p], func(cpu *Cpu) int {
				value := cpu.pop()
				if p == 3 {
					cpu.reg.Pair.SetAF(value)
				} else {
					cpu.set16(p, value)
				}
				return 0
			})
			return
		}
		switch p {
		case 0:
			define(set, op, 10, "RET", func(cpu *Cpu) int {
				cpu.reg.PC = cpu.pop()
				cpu.reg.WZ = cpu.reg.PC
				return 0
			})
		case 1:
			define(set, op, 4, "EXX", func(cpu *Cpu) int {
				cpu.reg.ExchangeAll()
				return 0
			})
		case 2:
			define(set, op, 4, "JP (HL)", func(cpu *Cpu) int {
				cpu.reg.PC = cpu.reg.Pair.HL()
				return 0
			})
		default:
			define(set, op, 6, "LD SP,HL", func(cpu *Cpu) int {
				cpu.reg.SP = cpu.reg.Pair.HL()
				return 0
			})
		}
	case 2:
		define(set, op, 10, "JP "+ccNames[y]+",{nn}", func(cpu *Cpu) int {
			addr := cpu.fetchWord()
			cpu.reg.WZ = addr
			if cpu.cond(y) {
				cpu.reg.PC = addr
			}
			return 0
		})
	case 3:
		defineMainX3Z3(set, op, y)
	case 4:
		define(set, op, 10, "CALL "+ccNames[y]+",{nn}", func(cpu *Cpu) int {
			addr := cpu.fetchWord()
			cpu.reg.WZ = addr
			if !cpu.cond(y) {
				return 0
			}
			cpu.push(cpu.reg.PC)
			cpu.reg.PC = addr
			return 7
		})
	case 5:
		if q == 0 {
			define(set, op, 11, "PUSH "+rp2Names[p], func(cpu *Cpu) int {
				if p == 3 {
					cpu.push(cpu.reg.Pair.AF())
				} else {
					cpu.push(cpu.get16(p))
				}
				return 0
			})
		} else if p == 0 {
			define(set, op, 17, "CALL {nn}", func(cpu *Cpu) int {
				addr := cpu.fetchWord()
				cpu.push(cpu.reg.PC)
				cpu.reg.PC = addr
				cpu.reg.WZ = addr
				return 0
			})
		}
		// DD, ED and FD are prefixes, decoded by dispatch.
	case 6:
		define(set, op, 7, aluNames[y]+"{n}", func(cpu *Cpu) int {
			cpu.alu(y, cpu.fetchByte())
			return 0
		})
	default:
		target := uint16(y) * 8
		define(set, op, 11, fmt.Sprintf("RST %02XH", target), func(cpu *Cpu) int {
			cpu.push(cpu.reg.PC)
			cpu.reg.PC = target
			cpu.reg.WZ = target
			return 0
		})
	}
}

func defineMainX3Z3(set *[256]Instruction, op int, y uint8) {
	switch y {
	case 0:
		define(set, op, 10, "JP {nn}", func(cpu *Cpu) int {
			addr := cpu.fetchWord()
			cpu.reg.PC = addr
			cpu.reg.WZ = addr
			return 0
		})
	case 1:
		// CB is a prefix, decoded by dispatch.
	case 2:
		define(set, op, 11, "OUT ({n}),A", func(cpu *Cpu) int {
			n := cpu.fetchByte()
			a := cpu.reg.Pair.A
			cpu.out(word(a, n), a)
			cpu.reg.WZ = uint16(a)<<8 | uint16(n+1)
			return 0
		})
	case 3:
		define(set, op, 11, "IN A,({n})", func(cpu *Cpu) int {
			port := word(cpu.reg.Pair.A, cpu.fetchByte())
			cpu.reg.Pair.A = cpu.in(port)
			cpu.reg.WZ = port + 1
			return 0
		})
	case 4:
		define(set, op, 19, "EX (SP),HL", func(cpu *Cpu) int {
			value := cpu.read16(cpu.reg.SP)
			cpu.write16(cpu.reg.SP, cpu.reg.Pair.HL())
			cpu.reg.Pair.SetHL(value)
			cpu.reg.WZ = value
			return 0
		})
	case 5:
		define(set, op, 4, "EX DE,HL", func(cpu *Cpu) int {
			p := &cpu.reg.Pair
			p.D, p.H = p.H, p.D
			p.E, p.L = p.L, p.E
			return 0
		})
	case 6:
		define(set, op, 4, "DI", func(cpu *Cpu) int {
			cpu.reg.IFF = 0
			return 0
		})
	default:
		define(set, op, 4, "EI", func(cpu *Cpu) int {
			cpu.reg.IFF = IFF_1 | IFF_2
			cpu.eiDelay = true
			return 0
		})
	}
}

package cpu

// indexAddr reads the displacement of an (IX+d) operand and returns the
// effective address.
func (cpu *Cpu) indexAddr() (addr uint16) {
	d := cpu.fetchDisplacement()
	addr = *cpu.idx + uint16(int16(d))
	cpu.reg.WZ = addr
	return
}

// usesH is true when register field r selects H or L.
func usesH(r uint8) bool {
	return r == 4 || r == 5
}

// defineIndex fills the DD and FD table. Opcodes that do not involve HL
// run as their unprefixed form, delayed by the prefix fetch.
func defineIndex() {
	set := &indexSet

	for op := range 256 {
		ins := mainSet[op]
		ins.Cycles += 4
		set[op] = ins
	}

	for p := range uint8(4) {
		define(set, int(p)<<4|0x09, 15, "ADD IX,"+rpxNames[p], func(cpu *Cpu) int {
			*cpu.idx = cpu.add16(*cpu.idx, cpu.get16x(p))
			return 0
		})
	}

	define(set, 0x21, 14, "LD IX,{nn}", func(cpu *Cpu) int {
		*cpu.idx = cpu.fetchWord()
		return 0
	})
	define(set, 0x22, 20, "LD ({nn}),IX", func(cpu *Cpu) int {
		addr := cpu.fetchWord()
		cpu.write16(addr, *cpu.idx)
		cpu.reg.WZ = addr + 1
		return 0
	})
	define(set, 0x2a, 20, "LD IX,({nn})", func(cpu *Cpu) int {
		addr := cpu.fetchWord()
		*cpu.idx = cpu.read16(addr)
		cpu.reg.WZ = addr + 1
		return 0
	})
	define(set, 0x23, 10, "INC IX", func(cpu *Cpu) int {
		*cpu.idx++
		return 0
	})
	define(set, 0x2b, 10, "DEC IX", func(cpu *Cpu) int {
		*cpu.idx--
		return 0
	})

	for _, r := range []uint8{4, 5} {
		define(set, int(r)<<3|0x04, 8, "INC "+r8xNames[r], func(cpu *Cpu) int {
			cpu.set8x(r, cpu.inc8(cpu.get8x(r)))
			return 0
		})
		define(set, int(r)<<3|0x05, 8, "DEC "+r8xNames[r], func(cpu *Cpu) int {
			cpu.set8x(r, cpu.dec8(cpu.get8x(r)))
			return 0
		})
		define(set, int(r)<<3|0x06, 11, "LD "+r8xNames[r]+",{n}", func(cpu *Cpu) int {
			cpu.set8x(r, cpu.fetchByte())
			return 0
		})
	}

	define(set, 0x34, 23, "INC (IX{d})", func(cpu *Cpu) int {
		addr := cpu.indexAddr()
		cpu.write(addr, cpu.inc8(cpu.read(addr)))
		return 0
	})
	define(set, 0x35, 23, "DEC (IX{d})", func(cpu *Cpu) int {
		addr := cpu.indexAddr()
		cpu.write(addr, cpu.dec8(cpu.read(addr)))
		return 0
	})
	define(set, 0x36, 19, "LD (IX{d}),{n}", func(cpu *Cpu) int {
		addr := cpu.indexAddr()
		cpu.write(addr, cpu.fetchByte())
		return 0
	})

	for op := 0x40; op < 0xc0; op++ {
		if op == 0x76 {
			continue
		}
		x, y, z := decode(op)
		if x == 1 {
			defineIndexLoad(set, op, y, z)
		} else {
			defineIndexAlu(set, op, y, z)
		}
	}

	define(set, 0xe1, 14, "POP IX", func(cpu *Cpu) int {
		*cpu.idx = cpu.pop()
		return 0
	})
	define(set, 0xe3, 23, "EX (SP),IX", func(cpu *Cpu) int {
		value := cpu.read16(cpu.reg.SP)
		cpu.write16(cpu.reg.SP, *cpu.idx)
		*cpu.idx = value
		cpu.reg.WZ = value
		return 0
	})
	define(set, 0xe5, 15, "PUSH IX", func(cpu *Cpu) int {
		cpu.push(*cpu.idx)
		return 0
	})
	define(set, 0xe9, 8, "JP (IX)", func(cpu *Cpu) int {
		cpu.reg.PC = *cpu.idx
		return 0
	})
	define(set, 0xf9, 10, "LD SP,IX", func(cpu *Cpu) int {
		cpu.reg.SP = *cpu.idx
		return 0
	})
}

func defineIndexLoad(set *[256]Instruction, op int, y, z uint8) {
	switch {
	case y == 6:
		// The register operand is the real H or L.
		define(set, op, 19, "LD (IX{d}),"+r8Names[z], func(cpu *Cpu) int {
			addr := cpu.indexAddr()
			cpu.write(addr, cpu.get8(z))
			return 0
		})
	case z == 6:
		define(set, op, 19, "LD "+r8Names[y]+",(IX{d})", func(cpu *Cpu) int {
			cpu.set8(y, cpu.read(cpu.indexAddr()))
			return 0
		})
	case usesH(y) || usesH(z):
		define(set, op, 8, "LD "+r8xNames[y]+","+r8xNames[z], func(cpu *Cpu) int {
			cpu.set8x(y, cpu.get8x(z))
			return 0
		})
	}
}

func defineIndexAlu(set *[256]Instruction, op int, y, z uint8) {
	switch {
	case z == 6:
		define(set, op, 19, aluNames[y]+"(IX{d})", func(cpu *Cpu) int {
			cpu.alu(y, cpu.read(cpu.indexAddr()))
			return 0
		})
	case usesH(z):
		define(set, op, 8, aluNames[y]+r8xNames[z], func(cpu *Cpu) int {
			cpu.alu(y, cpu.get8x(z))
			return 0
		})
	}
}

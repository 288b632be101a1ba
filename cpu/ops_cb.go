package cpu

import (
	"fmt"
)

func defineCb() {
	set := &cbSet

	for op := range 256 {
		x, y, z := decode(op)
		mask := uint8(1) << y

		switch x {
		case 0:
			define(set, op, withMemory(z, 8, 15), rotNames[y]+" "+r8Names[z], func(cpu *Cpu) int {
				cpu.set8(z, cpu.rot(y, cpu.get8(z)))
				return 0
			})
		case 1:
			name := fmt.Sprintf("BIT %d,%s", y, r8Names[z])
			if z == 6 {
				define(set, op, 12, name, func(cpu *Cpu) int {
					// X and Y come from the internal WZ register.
					cpu.bit(y, cpu.read(cpu.reg.Pair.HL()), uint8(cpu.reg.WZ>>8))
					return 0
				})
			} else {
				define(set, op, 8, name, func(cpu *Cpu) int {
					value := cpu.get8(z)
					cpu.bit(y, value, value)
					return 0
				})
			}
		case 2:
			define(set, op, withMemory(z, 8, 15), fmt.Sprintf("RES %d,%s", y, r8Names[z]), func(cpu *Cpu) int {
				cpu.set8(z, cpu.get8(z)&^mask)
				return 0
			})
		default:
			define(set, op, withMemory(z, 8, 15), fmt.Sprintf("SET %d,%s", y, r8Names[z]), func(cpu *Cpu) int {
				cpu.set8(z, cpu.get8(z)|mask)
				return 0
			})
		}
	}
}

// defineIndexCb fills the DD CB d op table. The effective address is
// resolved by dispatch before the opcode byte is read.
//
// Except for BIT, a register field other than (HL) also receives a copy
// of the result.
func defineIndexCb() {
	set := &indexCbSet

	for op := range 256 {
		x, y, z := decode(op)
		mask := uint8(1) << y

		suffix := ""
		if z != 6 {
			suffix = "," + r8Names[z]
		}

		store := func(cpu *Cpu, value uint8) {
			cpu.write(cpu.ea, value)
			if z != 6 {
				cpu.set8(z, value)
			}
		}

		switch x {
		case 0:
			define(set, op, 23, rotNames[y]+" (IX{d})"+suffix, func(cpu *Cpu) int {
				store(cpu, cpu.rot(y, cpu.read(cpu.ea)))
				return 0
			})
		case 1:
			define(set, op, 20, fmt.Sprintf("BIT %d,(IX{d})", y), func(cpu *Cpu) int {
				cpu.bit(y, cpu.read(cpu.ea), uint8(cpu.ea>>8))
				return 0
			})
		case 2:
			define(set, op, 23, fmt.Sprintf("RES %d,(IX{d})%s", y, suffix), func(cpu *Cpu) int {
				store(cpu, cpu.read(cpu.ea)&^mask)
				return 0
			})
		default:
			define(set, op, 23, fmt.Sprintf("SET %d,(IX{d})%s", y, suffix), func(cpu *Cpu) int {
				store(cpu, cpu.read(cpu.ea)|mask)
				return 0
			})
		}
	}
}

package cpu

// Arithmetic and logic on A and F.

func (cpu *Cpu) add8(value uint8, carry uint8) {
	a := cpu.reg.Pair.A
	sum := uint16(a) + uint16(value) + uint16(carry)
	res := uint8(sum)

	f := sz53Table[res]
	if sum > 0xff {
		f |= FLAG_C
	}
	if (a^value^res)&0x10 != 0 {
		f |= FLAG_H
	}
	if (a^res)&(value^res)&0x80 != 0 {
		f |= FLAG_PV
	}

	cpu.reg.Pair.A = res
	cpu.reg.Pair.F = f
}

// sub8 computes A - value - carry, sets the flags and returns the result.
func (cpu *Cpu) sub8(value uint8, carry uint8) (res uint8) {
	a := cpu.reg.Pair.A
	diff := int(a) - int(value) - int(carry)
	res = uint8(diff)

	f := sz53Table[res] | FLAG_N
	if diff < 0 {
		f |= FLAG_C
	}
	if (a^value^res)&0x10 != 0 {
		f |= FLAG_H
	}
	if (a^value)&(a^res)&0x80 != 0 {
		f |= FLAG_PV
	}

	cpu.reg.Pair.F = f
	return
}

// alu runs operation op of the ADD, ADC, SUB, SBC, AND, XOR, OR, CP encoding.
func (cpu *Cpu) alu(op uint8, value uint8) {
	p := &cpu.reg.Pair
	carry := p.F & FLAG_C

	switch op {
	case 0:
		cpu.add8(value, 0)
	case 1:
		cpu.add8(value, carry)
	case 2:
		p.A = cpu.sub8(value, 0)
	case 3:
		p.A = cpu.sub8(value, carry)
	case 4:
		p.A &= value
		p.F = sz53pTable[p.A] | FLAG_H
	case 5:
		p.A ^= value
		p.F = sz53pTable[p.A]
	case 6:
		p.A |= value
		p.F = sz53pTable[p.A]
	default:
		cpu.sub8(value, 0)
		// CP takes X and Y from the operand.
		p.F = (p.F &^ FLAG_XY) | (value & FLAG_XY)
	}
}

func (cpu *Cpu) inc8(value uint8) (res uint8) {
	res = value + 1

	f := (cpu.reg.Pair.F & FLAG_C) | sz53Table[res]
	if res == 0x80 {
		f |= FLAG_PV
	}
	if res&0x0f == 0 {
		f |= FLAG_H
	}

	cpu.reg.Pair.F = f
	return
}

func (cpu *Cpu) dec8(value uint8) (res uint8) {
	res = value - 1

	f := (cpu.reg.Pair.F & FLAG_C) | FLAG_N | sz53Table[res]
	if value == 0x80 {
		f |= FLAG_PV
	}
	if value&0x0f == 0 {
		f |= FLAG_H
	}

	cpu.reg.Pair.F = f
	return
}

// add16 is ADD HL,rp and its index forms. S, Z and PV are preserved.
func (cpu *Cpu) add16(a, b uint16) (res uint16) {
	sum := uint32(a) + uint32(b)
	res = uint16(sum)

	f := cpu.reg.Pair.F & (FLAG_S | FLAG_Z | FLAG_PV)
	f |= uint8(res>>8) & FLAG_XY
	if sum > 0xffff {
		f |= FLAG_C
	}
	if (a^b^res)&0x1000 != 0 {
		f |= FLAG_H
	}

	cpu.reg.Pair.F = f
	cpu.reg.WZ = a + 1
	return
}

func (cpu *Cpu) adc16(a, b uint16) (res uint16) {
	sum := uint32(a) + uint32(b) + uint32(cpu.reg.Pair.F&FLAG_C)
	res = uint16(sum)

	f := uint8(res>>8) & (FLAG_S | FLAG_XY)
	if res == 0 {
		f |= FLAG_Z
	}
	if sum > 0xffff {
		f |= FLAG_C
	}
	if (a^b^res)&0x1000 != 0 {
		f |= FLAG_H
	}
	if (a^res)&(b^res)&0x8000 != 0 {
		f |= FLAG_PV
	}

	cpu.reg.Pair.F = f
	cpu.reg.WZ = a + 1
	return
}

func (cpu *Cpu) sbc16(a, b uint16) (res uint16) {
	diff := int(a) - int(b) - int(cpu.reg.Pair.F&FLAG_C)
	res = uint16(diff)

	f := FLAG_N | uint8(res>>8)&(FLAG_S|FLAG_XY)
	if res == 0 {
		f |= FLAG_Z
	}
	if diff < 0 {
		f |= FLAG_C
	}
	if (a^b^res)&0x1000 != 0 {
		f |= FLAG_H
	}
	if (a^b)&(a^res)&0x8000 != 0 {
		f |= FLAG_PV
	}

	cpu.reg.Pair.F = f
	cpu.reg.WZ = a + 1
	return
}

// rot runs operation op of the RLC, RRC, RL, RR, SLA, SRA, SLL, SRL encoding.
func (cpu *Cpu) rot(op uint8, value uint8) (res uint8) {
	var carry uint8
	cin := cpu.reg.Pair.F & FLAG_C

	switch op {
	case 0:
		carry = value >> 7
		res = value<<1 | carry
	case 1:
		carry = value & 1
		res = value>>1 | carry<<7
	case 2:
		carry = value >> 7
		res = value<<1 | cin
	case 3:
		carry = value & 1
		res = value>>1 | cin<<7
	case 4:
		carry = value >> 7
		res = value << 1
	case 5:
		carry = value & 1
		res = value>>1 | value&0x80
	case 6:
		carry = value >> 7
		res = value<<1 | 1
	default:
		carry = value & 1
		res = value >> 1
	}

	cpu.reg.Pair.F = sz53pTable[res] | carry
	return
}

// rotA runs the RLCA, RRCA, RLA, RRA accumulator forms, which only touch
// H, N, C and the X and Y copies.
func (cpu *Cpu) rotA(op uint8) {
	p := &cpu.reg.Pair
	keep := p.F & (FLAG_S | FLAG_Z | FLAG_PV)

	p.A = cpu.rot(op, p.A)
	p.F = keep | (p.F & FLAG_C) | (p.A & FLAG_XY)
}

func (cpu *Cpu) bit(n uint8, value uint8, xy uint8) {
	f := (cpu.reg.Pair.F & FLAG_C) | FLAG_H | (xy & FLAG_XY)
	mask := uint8(1) << n

	if value&mask == 0 {
		f |= FLAG_Z | FLAG_PV
	} else if n == 7 {
		f |= FLAG_S
	}

	cpu.reg.Pair.F = f
}

func (cpu *Cpu) daa() {
	p := &cpu.reg.Pair
	a := p.A

	var diff uint8
	carry := p.F & FLAG_C
	if p.F&FLAG_H != 0 || a&0x0f > 9 {
		diff = 0x06
	}
	if carry != 0 || a > 0x99 {
		diff |= 0x60
		carry = FLAG_C
	}

	var half uint8
	if p.F&FLAG_N != 0 {
		p.A = a - diff
		if p.F&FLAG_H != 0 && a&0x0f < 6 {
			half = FLAG_H
		}
	} else {
		p.A = a + diff
		if a&0x0f > 9 {
			half = FLAG_H
		}
	}

	p.F = sz53pTable[p.A] | carry | half | (p.F & FLAG_N)
}

func (cpu *Cpu) cpl() {
	p := &cpu.reg.Pair
	p.A = ^p.A
	p.F = (p.F & (FLAG_S | FLAG_Z | FLAG_PV | FLAG_C)) | FLAG_H | FLAG_N | (p.A & FLAG_XY)
}

func (cpu *Cpu) scf() {
	p := &cpu.reg.Pair
	p.F = (p.F & (FLAG_S | FLAG_Z | FLAG_PV)) | FLAG_C | (p.A & FLAG_XY)
}

func (cpu *Cpu) ccf() {
	p := &cpu.reg.Pair
	f := (p.F & (FLAG_S | FLAG_Z | FLAG_PV)) | (p.A & FLAG_XY)
	if p.F&FLAG_C != 0 {
		f |= FLAG_H
	} else {
		f |= FLAG_C
	}
	p.F = f
}

func (cpu *Cpu) neg() {
	p := &cpu.reg.Pair
	value := p.A
	p.A = 0
	p.A = cpu.sub8(value, 0)
}

// cond tests condition cc of the NZ, Z, NC, C, PO, PE, P, M encoding.
func (cpu *Cpu) cond(cc uint8) bool {
	f := cpu.reg.Pair.F
	var mask uint8
	switch cc >> 1 {
	case 0:
		mask = FLAG_Z
	case 1:
		mask = FLAG_C
	case 2:
		mask = FLAG_PV
	default:
		mask = FLAG_S
	}
	return (f&mask != 0) == (cc&1 != 0)
}

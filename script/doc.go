// Package script binds the Z80 core to Starlark.
//
// Scripts see a predeclared module z80 whose Z80 constructor takes the
// bus as four functions:
//
//	cpu = z80.Z80(read_byte, write_byte, in_port, out_port, returnPortAs16Bits = False)
//	cycles = cpu.execute(1000)
//	print(cpu.reg.pair.A, cpu.PC)
//
// The module also carries the symbolic constants of the CPU, such as
// z80.NMI_ADDRESS and z80.FLAG_Z.
package script

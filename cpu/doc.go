// Package cpu implements a cycle counted interpreter for the Zilog Z80.
//
// The CPU owns the register file (primary and alternate banks, index
// registers, I, R, WZ, interrupt flip-flops and mode) and drives a Bus for
// all memory and port accesses. Execute runs instructions until a cycle
// budget is consumed or a break is requested; interrupts are accepted only
// between instructions.
//
// The complete documented instruction set is implemented, together with the
// commonly relied upon undocumented behaviour: the X and Y flag bits, SLL,
// the IXH/IXL/IYH/IYL half index registers, the DDCB register copies and the
// ED opcode mirrors.
package cpu

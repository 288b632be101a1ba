package cpu

// Instruction is an entry of a dispatch table.
type Instruction struct {
	Name   string // Mnemonic, with {n}, {nn}, {d} and {e} operand placeholders.
	Cycles int    // T-states, excluding the extra of a taken branch or repeat.

	exec func(cpu *Cpu) int // Runs the instruction, returns extra T-states.
}

// Dispatch tables, indexed by the final opcode byte.
var (
	mainSet    [256]Instruction // Unprefixed
	cbSet      [256]Instruction // CB
	edSet      [256]Instruction // ED
	indexSet   [256]Instruction // DD and FD
	indexCbSet [256]Instruction // DD CB d and FD CB d

	haltIdle      = Instruction{Name: "HALT", Cycles: HALT_CYCLES}
	prefixIgnored = Instruction{Name: "NOP", Cycles: 4}
)

var (
	r8Names   = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	r8xNames  = [8]string{"B", "C", "D", "E", "IXH", "IXL", "(IX{d})", "A"}
	rpNames   = [4]string{"BC", "DE", "HL", "SP"}
	rpxNames  = [4]string{"BC", "DE", "IX", "SP"}
	rp2Names  = [4]string{"BC", "DE", "HL", "AF"}
	ccNames   = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
	aluNames  = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
	rotNames  = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}
	rotANames = [4]string{"RLCA", "RRCA", "RLA", "RRA"}
)

func init() {
	defineMain()
	defineCb()
	defineEd()
	defineIndex()
	defineIndexCb()
}

func define(set *[256]Instruction, op int, cycles int, name string, exec func(cpu *Cpu) int) {
	set[op] = Instruction{Name: name, Cycles: cycles, exec: exec}
}

// decode splits an opcode into its x, y, z fields.
func decode(op int) (x, y, z uint8) {
	return uint8(op >> 6), uint8(op>>3) & 7, uint8(op) & 7
}

// withMemory picks the cost of the (HL) form when r selects memory.
func withMemory(r uint8, cycles, memCycles int) int {
	if r == 6 {
		return memCycles
	}
	return cycles
}

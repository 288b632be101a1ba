package cpu

import (
	"fmt"
	"strings"
)

// trace collects what the debug hook reports about a step.
type trace struct {
	pc     uint16
	bytes  [8]uint8
	size   int
	prefix uint8 // Last DD or FD prefix, or zero.
	note   string
	ins    *Instruction

	n  uint8
	nn uint16
	d  int8
	e  uint16
}

func (tr *trace) begin(pc uint16) {
	*tr = trace{pc: pc}
}

func (tr *trace) push(value uint8) {
	if tr.size < len(tr.bytes) {
		tr.bytes[tr.size] = value
		tr.size++
	}
}

// mnemonic returns the instruction text with resolved operands.
func (tr *trace) mnemonic() (text string) {
	if tr.ins != nil {
		text = tr.ins.Name
		if tr.prefix == 0xfd {
			text = strings.ReplaceAll(text, "IX", "IY")
		}
		text = strings.NewReplacer(
			"{nn}", fmt.Sprintf("0x%04X", tr.nn),
			"{n}", fmt.Sprintf("0x%02X", tr.n),
			"{d}", fmt.Sprintf("%+d", tr.d),
			"{e}", fmt.Sprintf("0x%04X", tr.e),
		).Replace(text)
	}

	if tr.note != "" {
		text = strings.TrimSpace(tr.note + " " + text)
	}

	return
}

func (tr *trace) String() string {
	var hex strings.Builder
	for n, value := range tr.bytes[:tr.size] {
		if n > 0 {
			hex.WriteByte(' ')
		}
		fmt.Fprintf(&hex, "%02X", value)
	}

	return fmt.Sprintf("%04X  %-12s %s", tr.pc, hex.String(), tr.mnemonic())
}

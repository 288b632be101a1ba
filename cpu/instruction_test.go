package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mainTiming is the base T-state count of every unprefixed opcode.
// Prefixes are zero.
var mainTiming = [256]int{
	4, 10, 7, 6, 4, 4, 7, 4, 4, 11, 7, 6, 4, 4, 7, 4,
	8, 10, 7, 6, 4, 4, 7, 4, 12, 11, 7, 6, 4, 4, 7, 4,
	7, 10, 16, 6, 4, 4, 7, 4, 7, 11, 16, 6, 4, 4, 7, 4,
	7, 10, 13, 6, 11, 11, 10, 4, 7, 11, 13, 6, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	7, 7, 7, 7, 7, 7, 4, 7, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	5, 10, 10, 10, 10, 11, 7, 11, 5, 10, 10, 0, 10, 17, 7, 11,
	5, 10, 10, 11, 10, 11, 7, 11, 5, 4, 10, 11, 10, 0, 7, 11,
	5, 10, 10, 19, 10, 11, 7, 11, 5, 4, 10, 4, 10, 0, 7, 11,
	5, 10, 10, 4, 10, 11, 7, 11, 5, 6, 10, 4, 10, 0, 7, 11,
}

func TestMainTiming(t *testing.T) {
	assert := assert.New(t)

	for op, cycles := range mainTiming {
		assert.Equal(cycles, mainSet[op].Cycles, fmt.Sprintf("%02X %v", op, mainSet[op].Name))
		if cycles != 0 {
			assert.NotNil(mainSet[op].exec, fmt.Sprintf("%02X", op))
		}
	}
}

func TestPrefixTiming(t *testing.T) {
	assert := assert.New(t)

	for op := range 256 {
		x, _, z := decode(op)

		cb := 8
		if z == 6 {
			cb = 15
			if x == 1 {
				cb = 12
			}
		}
		assert.Equal(cb, cbSet[op].Cycles, fmt.Sprintf("CB %02X", op))

		ddcb := 23
		if x == 1 {
			ddcb = 20
		}
		assert.Equal(ddcb, indexCbSet[op].Cycles, fmt.Sprintf("DDCB %02X", op))

		assert.NotNil(edSet[op].exec, fmt.Sprintf("ED %02X", op))
	}

	table := [](struct {
		set    *[256]Instruction
		op     int
		cycles int
		name   string
	}){
		{&edSet, 0x40, 12, "IN B,(C)"},
		{&edSet, 0x42, 15, "SBC HL,BC"},
		{&edSet, 0x43, 20, "LD ({nn}),BC"},
		{&edSet, 0x44, 8, "NEG"},
		{&edSet, 0x45, 14, "RETN"},
		{&edSet, 0x4d, 14, "RETI"},
		{&edSet, 0x47, 9, "LD I,A"},
		{&edSet, 0x67, 18, "RRD"},
		{&edSet, 0x76, 8, "IM 1"},
		{&edSet, 0x7e, 8, "IM 2"},
		{&edSet, 0xa0, 16, "LDI"},
		{&edSet, 0xb0, 16, "LDIR"},
		{&edSet, 0xbb, 16, "OTDR"},
		{&edSet, 0xff, 8, "NOP"},
		{&indexSet, 0x00, 8, "NOP"},
		{&indexSet, 0x09, 15, "ADD IX,BC"},
		{&indexSet, 0x21, 14, "LD IX,{nn}"},
		{&indexSet, 0x22, 20, "LD ({nn}),IX"},
		{&indexSet, 0x23, 10, "INC IX"},
		{&indexSet, 0x24, 8, "INC IXH"},
		{&indexSet, 0x26, 11, "LD IXH,{n}"},
		{&indexSet, 0x34, 23, "INC (IX{d})"},
		{&indexSet, 0x36, 19, "LD (IX{d}),{n}"},
		{&indexSet, 0x44, 8, "LD B,IXH"},
		{&indexSet, 0x46, 19, "LD B,(IX{d})"},
		{&indexSet, 0x64, 8, "LD IXH,IXH"},
		{&indexSet, 0x66, 19, "LD H,(IX{d})"},
		{&indexSet, 0x74, 19, "LD (IX{d}),H"},
		{&indexSet, 0x78, 8, "LD A,B"},
		{&indexSet, 0x86, 19, "ADD A,(IX{d})"},
		{&indexSet, 0xbd, 8, "CP IXL"},
		{&indexSet, 0xc3, 14, "JP {nn}"},
		{&indexSet, 0xe1, 14, "POP IX"},
		{&indexSet, 0xe3, 23, "EX (SP),IX"},
		{&indexSet, 0xe5, 15, "PUSH IX"},
		{&indexSet, 0xe9, 8, "JP (IX)"},
		{&indexSet, 0xeb, 8, "EX DE,HL"},
		{&indexSet, 0xf9, 10, "LD SP,IX"},
		{&indexCbSet, 0x06, 23, "RLC (IX{d})"},
		{&indexCbSet, 0x00, 23, "RLC (IX{d}),B"},
		{&indexCbSet, 0x46, 20, "BIT 0,(IX{d})"},
		{&indexCbSet, 0xfe, 23, "SET 7,(IX{d})"},
		{&cbSet, 0x36, 15, "SLL (HL)"},
	}

	for _, entry := range table {
		ins := entry.set[entry.op]
		assert.Equal(entry.cycles, ins.Cycles, entry.name)
		assert.Equal(entry.name, ins.Name)
	}
}

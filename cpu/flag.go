package cpu

import (
	"math/bits"
)

// Flag bits of the F register.
const (
	FLAG_C  = uint8(1 << 0) // Carry
	FLAG_N  = uint8(1 << 1) // Subtract
	FLAG_PV = uint8(1 << 2) // Parity or overflow
	FLAG_X  = uint8(1 << 3) // Copy of result bit 3
	FLAG_H  = uint8(1 << 4) // Half carry
	FLAG_Y  = uint8(1 << 5) // Copy of result bit 5
	FLAG_Z  = uint8(1 << 6) // Zero
	FLAG_S  = uint8(1 << 7) // Sign

	FLAG_XY = FLAG_X | FLAG_Y
)

var (
	sz53Table   [256]uint8 // S, Z, Y and X of a result.
	parityTable [256]uint8 // PV set for even parity.
	sz53pTable  [256]uint8 // sz53Table | parityTable
)

func init() {
	for n := range 256 {
		value := uint8(n)
		sz53Table[n] = value & (FLAG_S | FLAG_XY)
		if value == 0 {
			sz53Table[n] |= FLAG_Z
		}

		if bits.OnesCount8(value)%2 == 0 {
			parityTable[n] = FLAG_PV
		}

		sz53pTable[n] = sz53Table[n] | parityTable[n]
	}
}

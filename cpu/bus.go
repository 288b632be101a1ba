package cpu

// OPEN_BUS is the value read from an address or port nothing drives.
const OPEN_BUS = uint8(0xff)

// Bus is the memory and I/O space seen by the CPU.
//
// Accesses are synchronous and cannot fail; a device that has nothing to
// return should return OPEN_BUS.
type Bus interface {
	Read(addr uint16) uint8         // Read a memory byte.
	Write(addr uint16, value uint8) // Write a memory byte.
	In(port uint16) uint8           // Read an I/O port.
	Out(port uint16, value uint8)   // Write an I/O port.
}

// Fetcher is implemented by a Bus that distinguishes opcode fetch (M1)
// cycles from other memory reads. Prefix bytes are fetched through Fetch,
// displacements and immediate operands through Read.
type Fetcher interface {
	Fetch(addr uint16) uint8
}

// BusFuncs adapts four call-outs to the Bus interface.
// A nil call-out behaves as an open bus.
type BusFuncs struct {
	ReadFunc  func(addr uint16) uint8
	WriteFunc func(addr uint16, value uint8)
	InFunc    func(port uint16) uint8
	OutFunc   func(port uint16, value uint8)
}

var _ Bus = (*BusFuncs)(nil)

func (bf *BusFuncs) Read(addr uint16) uint8 {
	if bf.ReadFunc == nil {
		return OPEN_BUS
	}
	return bf.ReadFunc(addr)
}

func (bf *BusFuncs) Write(addr uint16, value uint8) {
	if bf.WriteFunc != nil {
		bf.WriteFunc(addr, value)
	}
}

func (bf *BusFuncs) In(port uint16) uint8 {
	if bf.InFunc == nil {
		return OPEN_BUS
	}
	return bf.InFunc(port)
}

func (bf *BusFuncs) Out(port uint16, value uint8) {
	if bf.OutFunc != nil {
		bf.OutFunc(port, value)
	}
}

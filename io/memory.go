package io

import (
	"iter"
	"maps"
	"slices"
)

// MEMORY_SIZE is the size of the Z80 address space.
const MEMORY_SIZE = 0x10000

// Region is a span of the address space.
type Region struct {
	Start uint16
	Size  int
}

// Contains is true if addr is in the region.
func (rg Region) Contains(addr uint16) bool {
	return int(addr) >= int(rg.Start) && int(addr) < int(rg.Start)+rg.Size
}

// Memory is a flat 64K RAM. Regions marked read only ignore writes.
type Memory struct {
	Data [MEMORY_SIZE]uint8

	rom []Region
}

// Defines returns the symbolic constants of the memory.
func (mem *Memory) Defines() iter.Seq2[string, int] {
	return maps.All(map[string]int{
		"MEMORY_SIZE": MEMORY_SIZE,
	})
}

// Reset clears the RAM. Read only regions keep their content.
func (mem *Memory) Reset() {
	for addr := range mem.Data {
		if !mem.ReadOnly(uint16(addr)) {
			mem.Data[addr] = 0
		}
	}
}

// Load copies data to addr, bypassing write protection.
func (mem *Memory) Load(addr uint16, data []byte) (err error) {
	if int(addr)+len(data) > MEMORY_SIZE {
		err = ErrMemoryOverflow
		return
	}

	copy(mem.Data[addr:], data)

	return
}

// Protect marks a region read only.
func (mem *Memory) Protect(start uint16, size int) (err error) {
	if int(start)+size > MEMORY_SIZE {
		err = ErrMemoryOverflow
		return
	}

	mem.rom = append(mem.rom, Region{Start: start, Size: size})

	return
}

// ReadOnly is true if addr is in a protected region.
func (mem *Memory) ReadOnly(addr uint16) bool {
	return slices.ContainsFunc(mem.rom, func(rg Region) bool {
		return rg.Contains(addr)
	})
}

// Rom returns the protected regions.
func (mem *Memory) Rom() iter.Seq[Region] {
	return slices.Values(mem.rom)
}

func (mem *Memory) Read(addr uint16) uint8 {
	return mem.Data[addr]
}

func (mem *Memory) Write(addr uint16, value uint8) {
	if mem.ReadOnly(addr) {
		return
	}
	mem.Data[addr] = value
}

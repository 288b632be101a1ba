package io

import (
	"github.com/ezrec/z80/cpu"
)

type portEntry struct {
	match  uint16
	mask   uint16
	device Port
}

// Ports dispatches port accesses to attached devices. The first device
// whose match and mask select the port wins. Unclaimed reads return the
// open bus value; unclaimed writes are dropped.
type Ports struct {
	entries []portEntry
}

// Attach a device to every port p with p & mask == match.
func (ps *Ports) Attach(match uint16, mask uint16, device Port) {
	ps.entries = append(ps.entries, portEntry{
		match:  match & mask,
		mask:   mask,
		device: device,
	})
}

// Detach all devices.
func (ps *Ports) Detach() {
	ps.entries = nil
}

func (ps *Ports) lookup(port uint16) Port {
	for _, entry := range ps.entries {
		if port&entry.mask == entry.match {
			return entry.device
		}
	}
	return nil
}

func (ps *Ports) In(port uint16) uint8 {
	device := ps.lookup(port)
	if device == nil {
		return cpu.OPEN_BUS
	}
	return device.In(port)
}

func (ps *Ports) Out(port uint16, value uint8) {
	device := ps.lookup(port)
	if device != nil {
		device.Out(port, value)
	}
}

// Bus joins a Memory and a set of Ports into a cpu.Bus.
type Bus struct {
	Memory
	Ports
}

var _ cpu.Bus = (*Bus)(nil)

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"encoding/binary"
	"iter"
	"log"
	"maps"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/spf13/afero"

	"github.com/ezrec/z80/cpu"
	"github.com/ezrec/z80/ihex"
	"github.com/ezrec/z80/internal"
	"github.com/ezrec/z80/io"
)

const (
	TAPE_PORT  = 0x00 // Tape data port; the status port follows it.
	TIMER_PORT = 0x02 // Interval timer port.

	TIMER_PERIOD = 20000 // Default T-states between timer interrupts.
	TIMER_VECTOR = 0xff  // Default timer data bus vector, RST 38h in mode 0.
)

var _emulator_defines = map[string]int{
	"TAPE_PORT":  TAPE_PORT,
	"TIMER_PORT": TIMER_PORT,
}

// Emulator state. CPU + memory + IO devices.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Bus      io.Bus       // Memory and port map.
	Tape     io.Tape      // Tape console, at TAPE_PORT.
	Timer    io.Timer     // Interval timer, at TIMER_PORT.
	Recorder *io.Recorder // Bus cycle recorder, if enabled.

	Fs afero.Fs // File system images are loaded from.
}

// NewEmulator creates a new emulator. If record is non-zero, the most
// recent record bus cycles are kept in the Recorder.
func NewEmulator(port16 bool, record int) (emu *Emulator) {
	emu = &Emulator{
		Fs: afero.NewOsFs(),
	}

	var bus cpu.Bus = &emu.Bus
	if record > 0 {
		emu.Recorder = &io.Recorder{Bus: bus, Limit: record}
		bus = emu.Recorder
	}

	emu.Cpu = cpu.NewCpu(bus, port16)

	emu.Timer.Period = TIMER_PERIOD
	emu.Timer.Vector = TIMER_VECTOR
	emu.Timer.Address = cpu.NMI_ADDRESS
	emu.Timer.Target = emu.Cpu

	// Devices decode the low byte only, so that both port widths work.
	emu.Bus.Attach(TAPE_PORT, 0x00fe, &emu.Tape)
	emu.Bus.Attach(TIMER_PORT, 0x00ff, &emu.Timer)

	emu.Cpu.SetConsumeClockCallback(emu.Timer.Tick)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Bus.Memory.Defines(),
		emu.Tape.Defines(),
		emu.Timer.Defines(),
	)
}

// Reset the CPU, RAM, and devices. ROM content is kept.
func (emu *Emulator) Reset() {
	emu.Cpu.Reset()
	emu.Bus.Memory.Reset()
	emu.Timer.Reset()
	if emu.Recorder != nil {
		emu.Recorder.Reset()
	}
}

// Load an image into memory. Files ending in .hex or .ihx are Intel HEX,
// anything else is a raw binary placed at org.
func (emu *Emulator) Load(name string, org uint16, rom bool) (start uint16, err error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".hex", ".ihx":
		return emu.LoadHex(name, rom)
	default:
		return emu.LoadBinary(name, org, rom)
	}
}

// LoadHex loads an Intel HEX image. If rom is set, the loaded ranges are
// write protected. The start address is the start record of the image,
// or else its lowest address.
func (emu *Emulator) LoadHex(name string, rom bool) (start uint16, err error) {
	defer func() {
		if err != nil {
			err = &ErrLoad{Name: name, Err: err}
		}
	}()

	inf, err := emu.Fs.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	ps := &ihex.Parser{Verbose: emu.Verbose}
	img, err := ps.Parse(inf)
	if err != nil {
		return
	}

	if len(img.Segments) > 0 {
		start = uint16(img.Segments[0].Addr)
	}
	if img.HasStart {
		start = uint16(img.Start)
	}

	err = emu.load(name, img.Segments, rom)

	return
}

// LoadBinary loads a raw binary image at org, which is also the start
// address. If rom is set, the image is write protected.
func (emu *Emulator) LoadBinary(name string, org uint16, rom bool) (start uint16, err error) {
	defer func() {
		if err != nil {
			err = &ErrLoad{Name: name, Err: err}
		}
	}()

	data, err := afero.ReadFile(emu.Fs, name)
	if err != nil {
		return
	}

	start = org
	err = emu.load(name, []ihex.Segment{{Addr: uint32(org), Data: data}}, rom)

	return
}

func (emu *Emulator) load(name string, segments []ihex.Segment, rom bool) (err error) {
	for _, seg := range segments {
		if seg.End() > io.MEMORY_SIZE {
			err = io.ErrMemoryOverflow
			return
		}
		err = emu.Bus.Load(uint16(seg.Addr), seg.Data)
		if err != nil {
			return
		}
		if rom {
			err = emu.Bus.Protect(uint16(seg.Addr), len(seg.Data))
			if err != nil {
				return
			}
		}
		if emu.Verbose {
			log.Printf("emulator: %v: %d bytes at %04X", name, len(seg.Data), seg.Addr)
		}
	}

	return
}

// Run executes at least cycles T-states, and returns the T-states run.
func (emu *Emulator) Run(cycles int) int {
	emu.Cpu.Verbose = emu.Verbose

	return emu.Cpu.Execute(cycles)
}

// Idle is true if the CPU is halted with nothing left to wake it.
func (emu *Emulator) Idle() bool {
	reg := emu.Cpu.Registers()
	if !reg.Halted {
		return false
	}

	timer := emu.Timer.Control
	switch {
	case timer&io.TIMER_ENABLE == 0:
		return true
	case timer&io.TIMER_NMI != 0:
		return false
	default:
		return reg.IFF&cpu.IFF_1 == 0
	}
}

// RunUntilHalt executes instructions until the CPU is idle in HALT.
// A limit of zero runs without bound.
func (emu *Emulator) RunUntilHalt(limit int) (cycles int, err error) {
	emu.Cpu.Verbose = emu.Verbose

	defer func() {
		if err != nil {
			err = &ErrRuntime{PC: emu.Cpu.PC(), Err: err}
		}
	}()

	for !emu.Idle() {
		if limit > 0 && cycles >= limit {
			err = ErrCycleLimit
			return
		}

		cycles += emu.Cpu.Execute(1)
		if emu.Cpu.Stopped() {
			err = ErrBreak
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: halted at %04X after %d cycles", emu.Cpu.PC(), cycles)
	}

	return
}

// Digest returns a hash of memory and the CPU registers.
func (emu *Emulator) Digest() uint64 {
	hash := xxhash.New()
	hash.Write(emu.Bus.Memory.Data[:])
	binary.Write(hash, binary.LittleEndian, emu.Cpu.Registers())
	return hash.Sum64()
}

package emulator

import (
	"bytes"
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/z80/cpu"
	"github.com/ezrec/z80/ihex"
	"github.com/ezrec/z80/io"
)

// Prints the NUL terminated string at 0x010D to the tape.
//
//	        LD   HL,msg
//	loop:   LD   A,(HL)
//	        OR   A
//	        JR   Z,done
//	        OUT  (TAPE_PORT),A
//	        INC  HL
//	        JR   loop
//	done:   HALT
//	msg:    DB   "Hi",0
var helloProgram = []byte{
	0x21, 0x0d, 0x01,
	0x7e,
	0xb7,
	0x28, 0x05,
	0xd3, 0x00,
	0x23,
	0x18, 0xf7,
	0x76,
	'H', 'i', 0x00,
}

// Copies the tape input to the tape output.
//
//	loop:   IN   A,(TAPE_PORT+1)
//	        AND  TAPE_STATUS_READY
//	        JR   Z,done
//	        IN   A,(TAPE_PORT)
//	        OUT  (TAPE_PORT),A
//	        JR   loop
//	done:   HALT
var echoProgram = []byte{
	0xdb, 0x01,
	0xe6, 0x01,
	0x28, 0x06,
	0xdb, 0x00,
	0xd3, 0x00,
	0x18, 0xf4,
	0x76,
}

// Counts five timer interrupts at 0x9000, then halts.
//
//	        ORG  0x0000
//	        LD   SP,0x8000
//	        IM   1
//	        LD   A,TIMER_ENABLE
//	        OUT  (TIMER_PORT),A
//	wait:   EI
//	        HALT
//	        JR   wait
//
//	        ORG  0x0038
//	        LD   A,(0x9000)
//	        INC  A
//	        LD   (0x9000),A
//	        CP   5
//	        JR   Z,done
//	        RETI
//	done:   DI
//	        HALT
var timerProgram = map[uint16][]byte{
	0x0000: {
		0x31, 0x00, 0x80,
		0xed, 0x56,
		0x3e, 0x01,
		0xd3, 0x02,
		0xfb,
		0x76,
		0x18, 0xfc,
	},
	0x0038: {
		0x3a, 0x00, 0x90,
		0x3c,
		0x32, 0x00, 0x90,
		0xfe, 0x05,
		0x28, 0x02,
		0xed, 0x4d,
		0xf3,
		0x76,
	},
}

func doRun(emu *Emulator, name string, program []byte, input string, t *testing.T) (output string, cycles int) {
	assert := assert.New(t)

	assert.NoError(afero.WriteFile(emu.Fs, name, program, 0644))

	start, err := emu.Load(name, 0x0100, false)
	assert.NoError(err)
	emu.SetPC(start)

	emu.Tape.Input = strings.NewReader(input)
	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	cycles, err = emu.RunUntilHalt(100000)
	assert.NoError(err)

	output = tape_output.String()
	return
}

func newTestEmulator(port16 bool, record int) (emu *Emulator) {
	emu = NewEmulator(port16, record)
	emu.Fs = afero.NewMemMapFs()
	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(false, 0)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Fs)
	assert.Nil(emu.Recorder)
	assert.False(emu.Port16())

	defines := maps.Collect(emu.Defines())
	assert.Equal(TAPE_PORT, defines["TAPE_PORT"])
	assert.Equal(TIMER_PORT, defines["TIMER_PORT"])
	assert.Equal(int(cpu.NMI_ADDRESS), defines["NMI_ADDRESS"])
	assert.Equal(int(io.TIMER_ENABLE), defines["TIMER_ENABLE"])
	assert.Equal(io.MEMORY_SIZE, defines["MEMORY_SIZE"])
}

func TestEmulator_Hello(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(false, 0)
	output, cycles := doRun(emu, "hello.bin", helloProgram, "", t)

	assert.Equal("Hi", output)
	assert.Equal(131, cycles)
	assert.Equal(uint16(0x010d), emu.PC())
	assert.True(emu.Registers().Halted)
}

func TestEmulator_Echo(t *testing.T) {
	assert := assert.New(t)

	for _, port16 := range []bool{false, true} {
		emu := newTestEmulator(port16, 0)
		output, _ := doRun(emu, "echo.bin", echoProgram, "abc", t)
		assert.Equal("abc", output, "port16=%v", port16)
	}
}

func TestEmulator_Timer(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(false, 0)
	for addr, code := range timerProgram {
		assert.NoError(emu.Bus.Load(addr, code))
	}

	cycles, err := emu.RunUntilHalt(0)
	assert.NoError(err)
	assert.Equal(uint8(5), emu.Bus.Read(0x9000))
	assert.Greater(cycles, 5*TIMER_PERIOD)
	assert.Less(cycles, 6*TIMER_PERIOD)
	assert.True(emu.Idle())

	emu.Reset()
	assert.Equal(uint8(0), emu.Bus.Read(0x9000))
	assert.Equal(uint8(0), emu.Timer.Control)

	for addr, code := range timerProgram {
		assert.NoError(emu.Bus.Load(addr, code))
	}
	_, err = emu.RunUntilHalt(1000)
	assert.ErrorIs(err, ErrCycleLimit)

	var errRuntime *ErrRuntime
	assert.ErrorAs(err, &errRuntime)
}

func TestEmulator_Break(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(false, 0)
	assert.NoError(emu.Bus.Load(0, []byte{0x18, 0xfe})) // JR $

	emu.RequestBreak()
	cycles, err := emu.RunUntilHalt(0)
	assert.Equal(0, cycles)
	assert.ErrorIs(err, ErrBreak)

	assert.Equal(1200, emu.Run(1200))

	// A break raised during a step stops the run after that step.
	steps := 0
	emu.SetConsumeClockCallback(func(cycles int) {
		emu.Timer.Tick(cycles)
		steps++
		if steps == 3 {
			emu.RequestBreak()
		}
	})
	cycles, err = emu.RunUntilHalt(1200)
	assert.Equal(3*12, cycles)
	assert.ErrorIs(err, ErrBreak)
}

func TestEmulator_LoadHex(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(false, 0)

	text := strings.Join([]string{
		":050100003E41D3017631",
		":0400000500000100F6",
		":00000001FF",
	}, "\n")
	assert.NoError(afero.WriteFile(emu.Fs, "rom.HEX", []byte(text), 0644))

	start, err := emu.Load("rom.HEX", 0, true)
	assert.NoError(err)
	assert.Equal(uint16(0x0100), start)
	assert.Equal(uint8(0x3e), emu.Bus.Read(0x0100))
	assert.True(emu.Bus.ReadOnly(0x0104))
	assert.False(emu.Bus.ReadOnly(0x0105))

	emu.Bus.Write(0x0100, 0x00)
	emu.Bus.Write(0x0105, 0x55)
	emu.Reset()
	assert.Equal(uint8(0x3e), emu.Bus.Read(0x0100))
	assert.Equal(uint8(0x00), emu.Bus.Read(0x0105))

	// Raw binaries load at the origin unless read as Intel HEX.
	assert.NoError(afero.WriteFile(emu.Fs, "rom.txt", []byte(text), 0644))
	start, err = emu.Load("rom.txt", 0x2000, false)
	assert.NoError(err)
	assert.Equal(uint16(0x2000), start)
	assert.Equal(uint8(':'), emu.Bus.Read(0x2000))

	start, err = emu.LoadHex("rom.txt", false)
	assert.NoError(err)
	assert.Equal(uint16(0x0100), start)
}

func TestEmulator_LoadErrors(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(false, 0)

	assert.NoError(afero.WriteFile(emu.Fs, "bad.hex", []byte(":00000001FE\n"), 0644))
	assert.NoError(afero.WriteFile(emu.Fs, "high.hex", []byte(":020000040001F9\n:020000000506F3\n"), 0644))
	assert.NoError(afero.WriteFile(emu.Fs, "big.bin", make([]byte, 0x10), 0644))

	table := [](struct {
		name string
		org  uint16
		err  error
	}){
		{"missing.bin", 0, afero.ErrFileNotFound},
		{"missing.hex", 0, afero.ErrFileNotFound},
		{"bad.hex", 0, ihex.ErrRecordChecksum},
		{"high.hex", 0, io.ErrMemoryOverflow},
		{"big.bin", 0xfff8, io.ErrMemoryOverflow},
	}

	for _, entry := range table {
		_, err := emu.Load(entry.name, entry.org, false)
		assert.ErrorIs(err, entry.err, entry.name)

		var errLoad *ErrLoad
		if assert.True(errors.As(err, &errLoad), entry.name) {
			assert.Equal(entry.name, errLoad.Name)
		}
	}
}

func TestEmulator_Digest(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(false, 0)
	other := newTestEmulator(false, 0)
	assert.Equal(emu.Digest(), other.Digest())

	doRun(emu, "hello.bin", helloProgram, "", t)
	doRun(other, "hello.bin", helloProgram, "", t)
	assert.Equal(emu.Digest(), other.Digest())

	digest := emu.Digest()
	emu.Bus.Write(0x8000, 1)
	assert.NotEqual(digest, emu.Digest())
	emu.Bus.Write(0x8000, 0)
	assert.Equal(digest, emu.Digest())

	emu.SetPC(0)
	assert.NotEqual(digest, emu.Digest())
}

func TestEmulator_Recorder(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(false, 4)
	doRun(emu, "hello.bin", helloProgram, "", t)

	assert.Equal(4, emu.Recorder.Len())

	var last io.Event
	for ev := range emu.Recorder.Events() {
		last = ev
	}
	assert.Equal(io.Event{Type: io.EVENT_FETCH, Value: 0x76, Addr: 0x010c}, last)

	emu.Reset()
	assert.Equal(0, emu.Recorder.Len())
}

package cpu

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterruptMode1(t *testing.T) {
	assert := assert.New(t)

	// IM 1 ; EI ; HALT
	cpu, bus := newTestCpu(0xed, 0x56, 0xfb, 0x76)

	assert.Equal(8+4+4+4+4, cpu.Execute(24))
	reg := cpu.Registers()
	assert.True(reg.Halted)
	assert.Equal(uint16(4), reg.PC)

	cpu.GenerateIRQ(0xff)
	assert.Equal(IM1_CYCLES, cpu.Step())

	reg = cpu.Registers()
	assert.False(reg.Halted)
	assert.Equal(IM1_ADDRESS, reg.PC)
	assert.Equal(uint8(0), reg.IFF)
	assert.Equal(uint16(0xfffd), reg.SP)
	assert.Equal(uint8(0x04), bus.Mem[0xfffd])
	assert.Equal(uint8(0x00), bus.Mem[0xfffe])
}

func TestInterruptMode2(t *testing.T) {
	assert := assert.New(t)

	// IM 2 ; LD A,0x80 ; LD I,A ; EI ; NOP ; NOP
	cpu, bus := newTestCpu(0xed, 0x5e, 0x3e, 0x80, 0xed, 0x47, 0xfb, 0x00, 0x00)
	bus.Mem[0x8010] = 0x34
	bus.Mem[0x8011] = 0x12

	for range 4 {
		cpu.Step()
	}

	// Not accepted on the boundary right after EI.
	cpu.GenerateIRQ(0x10)
	assert.Equal(4, cpu.Step())
	assert.Equal(uint16(8), cpu.PC())

	assert.Equal(IM2_CYCLES, cpu.Step())
	reg := cpu.Registers()
	assert.Equal(uint16(0x1234), reg.PC)
	assert.Equal(uint8(0x10), reg.InterruptVector)
	assert.Equal(uint8(0), reg.IFF)
	assert.Equal(uint8(0x08), bus.Mem[reg.SP])
}

func TestInterruptMode0(t *testing.T) {
	assert := assert.New(t)

	// EI ; NOP ; NOP
	cpu, bus := newTestCpu(0xfb, 0x00, 0x00)

	cpu.Step()
	cpu.Step()

	// RST 10H on the data bus.
	cpu.GenerateIRQ(0xd7)
	assert.Equal(11+IM0_CYCLES, cpu.Step())
	assert.Equal(uint16(0x10), cpu.PC())
	assert.Equal(uint8(0x02), bus.Mem[0xfffd])
}

func TestIrqMasked(t *testing.T) {
	assert := assert.New(t)

	cpu, bus := newTestCpu()
	bus.Mem[0x40] = 0xfb // EI

	cpu.GenerateIRQ(0xff)
	cpu.SetConsumeClockCallback(func(cycles int) {
		assert.Equal(4, cycles)
	})
	assert.Equal(0x40*4, cpu.Execute(0x40*4))
	assert.Equal(uint16(0x40), cpu.PC())
	assert.Equal(uint16(0xffff), cpu.Registers().SP)

	// EI, one more instruction, then the held request is taken.
	cpu.SetConsumeClockCallback(nil)
	cpu.Step()
	cpu.Step()
	assert.Equal(IM0_CYCLES+11, cpu.Step())
	assert.Equal(IM1_ADDRESS, cpu.PC())
}

func TestIrqOverwrite(t *testing.T) {
	assert := assert.New(t)

	// IM 2 ; EI ; NOP
	cpu, bus := newTestCpu(0xed, 0x5e, 0xfb, 0x00)
	bus.Mem[0x0002] = 0xfb
	bus.Mem[0x0020] = 0x00
	bus.Mem[0x0021] = 0x30

	cpu.Step()
	cpu.Step()
	cpu.GenerateIRQ(0x10)
	cpu.GenerateIRQ(0x20)
	cpu.Step()
	cpu.Step()

	assert.Equal(uint16(0x3000), cpu.PC())
	assert.Equal(uint8(0x20), cpu.Registers().InterruptVector)

	// Serviced once only.
	cpu.Step()
	assert.Equal(uint16(0x3001), cpu.PC())
}

func TestNmi(t *testing.T) {
	assert := assert.New(t)

	// EI ; NOP ; NOP
	cpu, bus := newTestCpu(0xfb, 0x00, 0x00)
	bus.Mem[0x66] = 0xed // RETN
	bus.Mem[0x67] = 0x45

	cpu.Step()
	cpu.Step()

	cpu.GenerateNMI(NMI_ADDRESS)
	assert.Equal(NMI_CYCLES, cpu.Step())
	reg := cpu.Registers()
	assert.Equal(NMI_ADDRESS, reg.PC)
	assert.Equal(NMI_ADDRESS, reg.InterruptAddrN)
	assert.Equal(IFF_2, reg.IFF)

	assert.Equal(14, cpu.Step())
	reg = cpu.Registers()
	assert.Equal(uint16(2), reg.PC)
	assert.Equal(IFF_1|IFF_2, reg.IFF)
}

func TestNmiIgnoresIff(t *testing.T) {
	assert := assert.New(t)

	// DI ; HALT
	cpu, _ := newTestCpu(0xf3, 0x76)

	cpu.Step()
	cpu.Step()
	assert.True(cpu.Registers().Halted)

	cpu.GenerateIRQ(0xff)
	cpu.GenerateNMI(0x1234)
	cpu.GenerateNMI(0x4000)
	assert.Equal(NMI_CYCLES, cpu.Step())

	reg := cpu.Registers()
	assert.False(reg.Halted)
	assert.Equal(uint16(0x4000), reg.PC)
	assert.Equal(uint8(0), reg.IFF)

	// The masked IRQ is still waiting.
	assert.Equal(4, cpu.Step())
	assert.Equal(uint16(0x4001), cpu.PC())
}

func TestInterruptConcurrent(t *testing.T) {
	assert := assert.New(t)

	// IM 1 ; EI ; JR -2
	cpu, bus := newTestCpu(0xed, 0x56, 0xfb, 0x18, 0xfe)
	// EI ; RETI
	copy(bus.Mem[0x38:], []uint8{0xfb, 0xed, 0x4d})

	serviced := 0
	cpu.SetDebugMessage(func(msg string) {
		if len(msg) >= 3 && msg[len(msg)-3:] == "IM1" {
			serviced++
		}
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cpu.GenerateIRQ(0xff)
		cpu.RequestBreak()
	}()
	wg.Wait()

	cpu.Execute(10000)
	cpu.Execute(10000)
	assert.Equal(1, serviced)
}

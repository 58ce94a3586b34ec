package cpu

import (
	"testing"

	"github.com/nullterm/gbcore/memory"
	"github.com/stretchr/testify/assert"
)

func newTestCPU() (*CPU, *memory.MMU) {
	mmu := memory.New()
	return New(mmu), mmu
}

func TestADCWithCarryAndZeroResult(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.pc = 0xC000
	cpu.setHL(0xD000)
	cpu.a = 0xFE
	cpu.setFlag(carryFlag)
	mmu.Write(0xD000, 0x01)
	mmu.Write(0xC000, 0x8E) // ADC A,(HL)

	cycles := cpu.Step()

	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x00), cpu.a)
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(carryFlag))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
	assert.False(t, cpu.isSetFlag(subFlag))
}

func TestADDWithZeroResult(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.pc = 0xC000
	cpu.setHL(0xD000)
	cpu.a = 0x00
	mmu.Write(0xD000, 0x00)
	mmu.Write(0xC000, 0x86) // ADD A,(HL)

	cycles := cpu.Step()

	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x00), cpu.a)
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.False(t, cpu.isSetFlag(carryFlag))
	assert.False(t, cpu.isSetFlag(halfCarryFlag))
}

func TestLDRRGrid(t *testing.T) {
	cpu, _ := newTestCPU()
	cpu.pc = 0xC000
	cpu.d = 0x5A
	cpu.e = 0x00
	cpu.bus.Write(0xC000, 0x5A) // LD E,D
	cycles := cpu.Step()
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint8(0x5A), cpu.e)
}

func TestLDIndirectHLGrid(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.pc = 0xC000
	cpu.setHL(0xD000)
	cpu.b = 0x42
	mmu.Write(0xC000, 0x70) // LD (HL),B

	cycles := cpu.Step()

	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x42), mmu.Read(0xD000))
}

func TestCBRotateGrid(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.pc = 0xC000
	cpu.b = 0x80
	mmu.Write(0xC000, 0xCB)
	mmu.Write(0xC001, 0x00) // RLC B

	cycles := cpu.Step()

	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x01), cpu.b)
	assert.True(t, cpu.isSetFlag(carryFlag))
}

func TestCBBitIndirectHL(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.pc = 0xC000
	cpu.setHL(0xD000)
	mmu.Write(0xD000, 0x00)
	mmu.Write(0xC000, 0xCB)
	mmu.Write(0xC001, 0x46) // BIT 0,(HL)

	cycles := cpu.Step()

	assert.Equal(t, 12, cycles)
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
	assert.False(t, cpu.isSetFlag(subFlag))
}

func TestJRNZTakenAndNotTaken(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.pc = 0xC000
	cpu.resetFlag(zeroFlag)
	mmu.Write(0xC000, 0x20) // JR NZ,e
	mmu.Write(0xC001, 0x05)

	cycles := cpu.Step()
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0xC007), cpu.pc)

	cpu.pc = 0xC000
	cpu.setFlag(zeroFlag)
	cycles = cpu.Step()
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint16(0xC002), cpu.pc)
}

func TestCALLAndRET(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.pc = 0xC000
	cpu.sp = 0xFFFE
	mmu.Write(0xC000, 0xCD) // CALL nn
	mmu.Write(0xC001, 0x00)
	mmu.Write(0xC002, 0xD0)

	cycles := cpu.Step()
	assert.Equal(t, 24, cycles)
	assert.Equal(t, uint16(0xD000), cpu.pc)
	assert.Equal(t, uint16(0xFFFC), cpu.sp)

	mmu.Write(0xD000, 0xC9) // RET
	cycles = cpu.Step()
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0xC003), cpu.pc)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestDAAAfterBCDAddition(t *testing.T) {
	cpu, _ := newTestCPU()
	cpu.a = 0x45
	cpu.addToA(0x38) // binary sum 0x7D
	cpu.daa()
	assert.Equal(t, uint8(0x83), cpu.a) // 45 + 38 in BCD = 83
	assert.False(t, cpu.isSetFlag(carryFlag))
}

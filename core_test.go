package gbcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestROM builds a minimal, header-valid ROM image with the given
// cartridge type byte and RAM size byte, filled with NOPs.
func newTestROM(typeByte, ramSizeByte uint8) []byte {
	rom := make([]byte, 0x8000)
	for i := range rom {
		rom[i] = 0x00 // NOP
	}
	rom[0x147] = typeByte
	rom[0x148] = 0x00 // 2 ROM banks
	rom[0x149] = ramSizeByte
	return rom
}

func TestNewRejectsMalformedROM(t *testing.T) {
	_, err := New([]byte{0x00, 0x01}, nil)
	assert.Error(t, err)
}

func TestNewRejectsUnsupportedCartridgeType(t *testing.T) {
	rom := newTestROM(0xFF, 0x00)
	_, err := New(rom, nil)
	assert.Error(t, err)
}

func TestRunFrameReturnsAFullFramebuffer(t *testing.T) {
	rom := newTestROM(0x00, 0x00) // ROM only
	core, err := New(rom, nil)
	require.NoError(t, err)

	fb := core.RunFrame()

	require.NotNil(t, fb)
	assert.Len(t, fb.ToSlice(), 160*144)
}

func TestSRAMSnapshotNilWithoutBatteryBackedRAM(t *testing.T) {
	rom := newTestROM(0x00, 0x00) // ROM only, no RAM
	core, err := New(rom, nil)
	require.NoError(t, err)

	assert.Nil(t, core.SRAMSnapshot())
}

func TestSRAMSnapshotRoundTripsThroughMBC1RAM(t *testing.T) {
	rom := newTestROM(0x03, 0x02) // MBC1+RAM+BATTERY, 1 RAM bank
	core, err := New(rom, nil)
	require.NoError(t, err)

	// enable RAM and write a byte through it
	core.mmu.Write(0x0000, 0x0A)
	core.mmu.Write(0xA000, 0x42)

	snapshot := core.SRAMSnapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, uint8(0x42), snapshot[0])

	restored, err := New(rom, snapshot)
	require.NoError(t, err)
	restored.mmu.Write(0x0000, 0x0A)
	assert.Equal(t, uint8(0x42), restored.mmu.Read(0xA000))
}

func TestSetButtonsRequestsJoypadInterruptOnPress(t *testing.T) {
	rom := newTestROM(0x00, 0x00)
	core, err := New(rom, nil)
	require.NoError(t, err)

	core.mmu.Write(0xFF0F, 0x00)
	core.SetButtons(1 << 4) // A

	assert.NotZero(t, core.mmu.Read(0xFF0F)&0x10)
}

// Package memory implements the DMG address space: the bus that routes
// reads and writes to ROM/RAM banks, video memory, I/O registers and
// high RAM, plus the cartridge header parsing and bank controllers that
// back cartridge space.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/nullterm/gbcore/addr"
	"github.com/nullterm/gbcore/bit"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// JoypadButton identifies one of the 8 physical Game Boy buttons.
type JoypadButton uint8

const (
	JoypadRight JoypadButton = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// SerialPort is the minimal interface for a device attached to SB/SC.
// Implementations must only ever be asked to handle addr.SB and addr.SC.
type SerialPort interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Tick(cycles int)
}

// MMU is the memory-mapped bus tying cartridge, work RAM, video RAM, I/O
// registers and high RAM into the single 16-bit DMG address space.
type MMU struct {
	cart      *Cartridge
	mbc       MBC
	memory    []uint8
	regionMap [256]memRegion

	joypadButtons uint8 // low nibble of P1 when the button group is selected
	joypadDpad    uint8 // low nibble of P1 when the d-pad group is selected

	Serial SerialPort
	Timer  *Timer
}

// New returns an MMU with no cartridge inserted: ROM/external RAM reads
// return 0xFF, matching a DMG powered on with an empty cartridge slot.
func New() *MMU {
	mmu := &MMU{
		memory:        make([]uint8, 0x10000),
		cart:          NewCartridge(),
		joypadButtons: 0x0F,
		joypadDpad:    0x0F,
		Timer:         NewTimer(),
	}
	mmu.Timer.RequestInterrupt = mmu.RequestInterrupt
	initRegionMap(mmu)
	return mmu
}

// NewWithCartridge returns an MMU with the given cartridge's ROM mapped
// through the bank controller its header declares.
func NewWithCartridge(cart *Cartridge) (*MMU, error) {
	mmu := New()
	mmu.cart = cart

	switch cart.Kind {
	case KindROMOnly:
		mmu.mbc = NewNoMBC(cart.ROM())
	case KindMBC1:
		mmu.mbc = NewMBC1(cart.ROM(), cart.RAMBankCount, cart.ROMBankCount)
	case KindMBC3:
		mmu.mbc = NewMBC3(cart.ROM(), cart.RAMBankCount, cart.ROMBankCount, cart.HasRTC)
	default:
		return nil, &UnsupportedCartridgeError{TypeByte: cart.TypeByte}
	}

	return mmu, nil
}

func initRegionMap(m *MMU) {
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	m.regionMap[0xFE] = regionOAM
	m.regionMap[0xFF] = regionIO
}

// Tick advances the timer and serial port by the given number of T-cycles.
func (m *MMU) Tick(cycles int) {
	m.Timer.Tick(cycles)
	if m.Serial != nil {
		m.Serial.Tick(cycles)
	}
}

// RAMSnapshot returns the cartridge's battery-backed RAM, for saving.
func (m *MMU) RAMSnapshot() []byte {
	if m.mbc == nil {
		return nil
	}
	return m.mbc.RAM()
}

// LoadRAM restores previously saved battery-backed RAM into the cartridge.
func (m *MMU) LoadRAM(data []byte) {
	if m.mbc == nil {
		return
	}
	copy(m.mbc.RAM(), data)
}

// RequestInterrupt sets the given bit in the IF register.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	flags := m.Read(addr.IF)
	m.Write(addr.IF, bit.Set(interruptBit(interrupt), flags))
}

func interruptBit(interrupt addr.Interrupt) uint8 {
	switch interrupt {
	case addr.VBlankInterrupt:
		return 0
	case addr.LCDSTATInterrupt:
		return 1
	case addr.TimerInterrupt:
		return 2
	case addr.SerialInterrupt:
		return 3
	case addr.JoypadInterrupt:
		return 4
	default:
		panic(fmt.Sprintf("memory: unknown interrupt bit 0x%02X", uint8(interrupt)))
	}
}

func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

func (m *MMU) SetBit(index uint8, address uint16, set bool) {
	value := m.Read(address)
	if set {
		value = bit.Set(index, value)
	} else {
		value = bit.Reset(index, value)
	}
	m.Write(address, value)
}

func (m *MMU) Read(address uint16) uint8 {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			slog.Warn("memory: read from cartridge space with no cartridge mapped", "addr", fmt.Sprintf("0x%04X", address))
			return 0xFF
		}
		return m.mbc.Read(address)
	case regionVRAM, regionWRAM:
		return m.memory[address]
	case regionOAM:
		if address >= 0xFEA0 {
			return 0xFF
		}
		return m.memory[address]
	case regionEcho:
		return m.memory[address-0x2000]
	case regionIO:
		return m.readIO(address)
	default:
		panic(fmt.Sprintf("memory: read from unmapped address 0x%04X", address))
	}
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return m.memory[address]
	case address == addr.SB || address == addr.SC:
		if m.Serial != nil {
			return m.Serial.Read(address)
		}
		return m.memory[address]
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return m.Timer.Read(address)
	case address == addr.IF:
		// Unused upper 3 bits always read back as 1.
		return m.memory[address] | 0xE0
	default:
		return m.memory[address]
	}
}

func (m *MMU) Write(address uint16, value uint8) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			slog.Warn("memory: write to cartridge space with no cartridge mapped", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
			return
		}
		m.mbc.Write(address, value)
	case regionVRAM, regionWRAM:
		m.memory[address] = value
	case regionOAM:
		if address >= 0xFEA0 {
			return
		}
		m.memory[address] = value
	case regionEcho:
		m.memory[address-0x2000] = value
	case regionIO:
		m.writeIO(address, value)
	default:
		panic(fmt.Sprintf("memory: write to unmapped address 0x%04X", address))
	}
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		m.writeJoypad(value)
	case address == addr.SB || address == addr.SC:
		if m.Serial != nil {
			m.Serial.Write(address, value)
		}
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		m.Timer.Write(address, value)
	case address == addr.IF:
		m.memory[address] = value | 0xE0
	case address == addr.DMA:
		m.runOAMDMA(value)
	default:
		m.memory[address] = value
	}
}

// runOAMDMA performs the documented OAM DMA transfer. Real hardware takes
// 160 M-cycles and locks out most of the bus meanwhile; this core models
// it as the instantaneous 160-byte copy it leaves behind.
func (m *MMU) runOAMDMA(value uint8) {
	source := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		m.memory[addr.OAMStart+i] = m.Read(source + i)
	}
	m.memory[addr.DMA] = value
}

// updateJoypadRegister recomputes the visible P1 register from the current
// selection bits and physical button/d-pad state. 0 means pressed.
func (m *MMU) updateJoypadRegister() {
	p1 := m.memory[addr.P1]
	result := uint8(0b11000000)
	result |= p1 & 0b00110000

	selectDpad := !bit.IsSet(4, p1)
	selectButtons := !bit.IsSet(5, p1)

	switch {
	case selectButtons && !selectDpad:
		result |= m.joypadButtons & 0x0F
	case selectDpad && !selectButtons:
		result |= m.joypadDpad & 0x0F
	case selectButtons && selectDpad:
		result |= m.joypadButtons & m.joypadDpad & 0x0F
	default:
		result |= 0x0F
	}

	m.memory[addr.P1] = result
}

func (m *MMU) writeJoypad(value uint8) {
	m.memory[addr.P1] = value & 0b00110000
	m.updateJoypadRegister()
}

// SetButtonState applies a single frame's full button state, expressed as a
// mask of JoypadButton bits where a set bit means "held down". One joypad
// interrupt is requested when at least one button goes from released to
// pressed.
func (m *MMU) SetButtonState(mask uint8) {
	oldButtons := m.joypadButtons
	oldDpad := m.joypadDpad

	m.joypadDpad = joypadLineState(mask, JoypadRight, JoypadLeft, JoypadUp, JoypadDown)
	m.joypadButtons = joypadLineState(mask, JoypadA, JoypadB, JoypadSelect, JoypadStart)

	buttonTransitions := oldButtons &^ m.joypadButtons
	dpadTransitions := oldDpad &^ m.joypadDpad
	if buttonTransitions|dpadTransitions != 0 {
		m.RequestInterrupt(addr.JoypadInterrupt)
	}

	m.updateJoypadRegister()
}

// joypadLineState packs 4 buttons (in bit-index order) into the active-low
// nibble the joypad register exposes for one button group.
func joypadLineState(mask uint8, b0, b1, b2, b3 JoypadButton) uint8 {
	line := uint8(0x0F)
	if bit.IsSet(uint8(b0), mask) {
		line = bit.Reset(0, line)
	}
	if bit.IsSet(uint8(b1), mask) {
		line = bit.Reset(1, line)
	}
	if bit.IsSet(uint8(b2), mask) {
		line = bit.Reset(2, line)
	}
	if bit.IsSet(uint8(b3), mask) {
		line = bit.Reset(3, line)
	}
	return line
}

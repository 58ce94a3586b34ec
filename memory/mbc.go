package memory

import (
	"time"

	"github.com/nullterm/gbcore/bit"
)

// MBC is the interface every memory bank controller variant implements.
// Representing mappers as one type per variant (rather than one struct with
// a mode flag) keeps each chip's quirks local and lets new mappers be added
// without touching the bus.
type MBC interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	// RAM returns the live battery-backed RAM contents for persistence.
	// Returns nil for mappers with no external RAM.
	RAM() []byte
}

// NoMBC backs ROM-only cartridges (32KB or less, no banking, no RAM).
type NoMBC struct {
	rom []uint8
}

func NewNoMBC(rom []uint8) *NoMBC {
	return &NoMBC{rom: rom}
}

func (m *NoMBC) Read(address uint16) uint8 {
	if int(address) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[address]
}

func (m *NoMBC) Write(address uint16, value uint8) {
	// Writes to a ROM-only cartridge are ignored.
}

func (m *NoMBC) RAM() []byte { return nil }

// MBC1 supports up to 125 switchable 16KB ROM banks and 4 8KB RAM banks,
// with the documented bank-0-is-unreachable-via-the-bank-register quirk.
type MBC1 struct {
	rom []uint8
	ram []uint8

	ramEnabled bool
	romBankLo  uint8 // 5 bits, written via 0x2000-0x3FFF
	upperBits  uint8 // 2 bits, written via 0x4000-0x5FFF
	mode       uint8 // 0 = ROM banking mode, 1 = RAM banking mode

	romBanks int
}

func NewMBC1(rom []uint8, ramBankCount, romBanks int) *MBC1 {
	return &MBC1{
		rom:       rom,
		ram:       make([]uint8, ramBankCount*0x2000),
		romBankLo: 1,
		romBanks:  romBanks,
	}
}

func (m *MBC1) romBank() int {
	bank := int(m.romBankLo)
	if m.mode == 0 {
		bank |= int(m.upperBits) << 5
	}
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

func (m *MBC1) ramBank() int {
	if m.mode == 1 {
		return int(m.upperBits)
	}
	return 0
}

func (m *MBC1) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.rom[address]
	case address <= 0x7FFF:
		offset := m.romBank()*0x4000 + int(address-0x4000)
		if offset >= len(m.rom) {
			return 0xFF
		}
		return m.rom[offset]
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := m.ramBank()*0x2000 + int(address-0xA000)
		if offset >= len(m.ram) {
			return 0xFF
		}
		return m.ram[offset]
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			// Writing 0 selects bank 1 instead: banks 0x20/0x40/0x60 can
			// never be selected through this register as a result.
			bank = 1
		}
		m.romBankLo = bank
	case address <= 0x5FFF:
		m.upperBits = value & 0x03
	case address <= 0x7FFF:
		m.mode = value & 0x01
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := m.ramBank()*0x2000 + int(address-0xA000)
		if offset < len(m.ram) {
			m.ram[offset] = value
		}
	}
}

func (m *MBC1) RAM() []byte { return m.ram }

// rtcSnapshot is a point-in-time read of the 5 MBC3 RTC registers.
type rtcSnapshot struct {
	seconds, minutes, hours uint8
	days                    uint16 // 9-bit day counter
	halt                    bool
	carry                   bool
}

// MBC3 supports up to 128 ROM banks, 4 RAM banks, and an optional
// Real-Time Clock. The RTC is approximated per spec: a base wall-clock
// timestamp plus the register values at that timestamp; elapsed seconds are
// computed lazily whenever the clock is read or latched.
type MBC3 struct {
	rom []uint8
	ram []uint8

	ramEnabled bool
	romBank    uint8 // 7 bits, 0 clamped to 1
	select_    uint8 // 0x00-0x03 = RAM bank, 0x08-0x0C = RTC register

	hasRTC    bool
	rtcBase   time.Time
	baseRegs  rtcSnapshot
	latched   rtcSnapshot
	latchStep uint8 // tracks the 0x00-then-0x01 latch write sequence

	romBanks int
	now      func() time.Time // overridable for tests
}

func NewMBC3(rom []uint8, ramBankCount, romBanks int, hasRTC bool) *MBC3 {
	m := &MBC3{
		rom:      rom,
		ram:      make([]uint8, ramBankCount*0x2000),
		romBank:  1,
		hasRTC:   hasRTC,
		romBanks: romBanks,
		now:      time.Now,
	}
	m.rtcBase = m.now()
	return m
}

func (m *MBC3) romBankIndex() int {
	bank := int(m.romBank)
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

func (m *MBC3) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.rom[address]
	case address <= 0x7FFF:
		offset := m.romBankIndex()*0x4000 + int(address-0x4000)
		if offset >= len(m.rom) {
			return 0xFF
		}
		return m.rom[offset]
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.hasRTC && m.select_ >= 0x08 && m.select_ <= 0x0C {
			return m.readRTCRegister(m.select_)
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		offset := int(m.select_)*0x2000 + int(address-0xA000)
		if offset >= len(m.ram) {
			return 0xFF
		}
		return m.ram[offset]
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case address <= 0x5FFF:
		m.select_ = value
	case address <= 0x7FFF:
		m.handleLatchWrite(value)
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.hasRTC && m.select_ >= 0x08 && m.select_ <= 0x0C {
			m.writeRTCRegister(m.select_, value)
			return
		}
		if len(m.ram) == 0 {
			return
		}
		offset := int(m.select_)*0x2000 + int(address-0xA000)
		if offset < len(m.ram) {
			m.ram[offset] = value
		}
	}
}

func (m *MBC3) RAM() []byte { return m.ram }

// handleLatchWrite implements the documented 0x00-then-0x01 latch sequence.
func (m *MBC3) handleLatchWrite(value uint8) {
	if !m.hasRTC {
		return
	}
	switch {
	case value == 0x00:
		m.latchStep = 1
	case value == 0x01 && m.latchStep == 1:
		m.latched = m.currentRTC()
		m.latchStep = 0
	default:
		m.latchStep = 0
	}
}

// currentRTC computes the live register values by adding elapsed wall-clock
// seconds (since baseRegs was established) to the stored baseline.
func (m *MBC3) currentRTC() rtcSnapshot {
	if m.baseRegs.halt {
		return m.baseRegs
	}

	elapsed := int64(m.now().Sub(m.rtcBase).Seconds())
	total := int64(m.baseRegs.seconds) + int64(m.baseRegs.minutes)*60 +
		int64(m.baseRegs.hours)*3600 + int64(m.baseRegs.days)*86400 + elapsed

	days := total / 86400
	rem := total % 86400
	hours := rem / 3600
	rem %= 3600
	minutes := rem / 60
	seconds := rem % 60

	carry := m.baseRegs.carry
	if days > 511 {
		carry = true
		days %= 512
	}

	return rtcSnapshot{
		seconds: uint8(seconds),
		minutes: uint8(minutes),
		hours:   uint8(hours),
		days:    uint16(days),
		carry:   carry,
	}
}

func (m *MBC3) readRTCRegister(reg uint8) uint8 {
	switch reg {
	case 0x08:
		return m.latched.seconds
	case 0x09:
		return m.latched.minutes
	case 0x0A:
		return m.latched.hours
	case 0x0B:
		return uint8(m.latched.days)
	case 0x0C:
		value := uint8(m.latched.days>>8) & 0x01
		if m.latched.halt {
			value = bit.Set(6, value)
		}
		if m.latched.carry {
			value = bit.Set(7, value)
		}
		return value
	default:
		return 0xFF
	}
}

// writeRTCRegister folds a CPU-side write into the live (unlatched) clock,
// re-basing the wall-clock baseline to now.
func (m *MBC3) writeRTCRegister(reg, value uint8) {
	cur := m.currentRTC()
	switch reg {
	case 0x08:
		cur.seconds = value % 60
	case 0x09:
		cur.minutes = value % 60
	case 0x0A:
		cur.hours = value % 24
	case 0x0B:
		cur.days = (cur.days &^ 0xFF) | uint16(value)
	case 0x0C:
		cur.days = (cur.days &^ 0x100) | (uint16(value&0x01) << 8)
		cur.halt = bit.IsSet(6, value)
		cur.carry = bit.IsSet(7, value)
	}
	m.baseRegs = cur
	m.rtcBase = m.now()
}

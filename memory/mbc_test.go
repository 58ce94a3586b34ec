package memory

import (
	"testing"
	"time"
)

func TestNoMBC(t *testing.T) {
	rom := make([]uint8, 0x8000)
	for i := range rom {
		rom[i] = uint8(i & 0xFF)
	}
	mbc := NewNoMBC(rom)

	if got := mbc.Read(0x0150); got != 0x50 {
		t.Errorf("Read(0x0150) = 0x%02X; want 0x50", got)
	}

	mbc.Write(0x2000, 0xFF) // writes are ignored
	if got := mbc.Read(0x2000); got != 0x00 {
		t.Errorf("Read(0x2000) after ignored write = 0x%02X; want 0x00", got)
	}
}

func TestMBC1(t *testing.T) {
	t.Run("ROM bank 0 is fixed", func(t *testing.T) {
		rom := make([]uint8, 0x8000)
		for i := range rom {
			rom[i] = uint8(i & 0xFF)
		}
		mbc := NewMBC1(rom, 0, 2)

		for addr := uint16(0x0000); addr < 0x4000; addr += 0x100 {
			if got, want := mbc.Read(addr), uint8(addr&0xFF); got != want {
				t.Errorf("Read(0x%04X) = 0x%02X; want 0x%02X", addr, got, want)
			}
		}
	})

	t.Run("ROM bank switching", func(t *testing.T) {
		rom := make([]uint8, 0x10000)
		for i := range rom {
			rom[i] = uint8(i / 0x4000)
		}
		mbc := NewMBC1(rom, 0, 4)

		for bank := uint8(1); bank <= 3; bank++ {
			mbc.Write(0x2000, bank)
			if got := mbc.Read(0x4000); got != bank {
				t.Errorf("bank %d: Read(0x4000) = 0x%02X; want 0x%02X", bank, got, bank)
			}
		}
	})

	t.Run("bank 0 substitutes to bank 1", func(t *testing.T) {
		rom := make([]uint8, 0x10000)
		for i := range rom {
			rom[i] = uint8(i / 0x4000)
		}
		mbc := NewMBC1(rom, 0, 4)
		mbc.Write(0x2000, 0x00)
		if got := mbc.Read(0x4000); got != 1 {
			t.Errorf("Read(0x4000) after selecting bank 0 = 0x%02X; want 1", got)
		}
	})

	t.Run("RAM disabled by default", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), 1, 2)
		if got := mbc.Read(0xA000); got != 0xFF {
			t.Errorf("Read from disabled RAM = 0x%02X; want 0xFF", got)
		}
	})

	t.Run("RAM enable and banking", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), 4, 2)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0x6000, 0x01) // RAM banking mode

		mbc.Write(0x4000, 0x00)
		mbc.Write(0xA000, 0x11)
		mbc.Write(0x4000, 0x01)
		mbc.Write(0xA000, 0x22)

		mbc.Write(0x4000, 0x00)
		if got := mbc.Read(0xA000); got != 0x11 {
			t.Errorf("bank 0: Read(0xA000) = 0x%02X; want 0x11", got)
		}
		mbc.Write(0x4000, 0x01)
		if got := mbc.Read(0xA000); got != 0x22 {
			t.Errorf("bank 1: Read(0xA000) = 0x%02X; want 0x22", got)
		}
	})
}

func TestMBC3RTCLatchAndElapsed(t *testing.T) {
	mbc := NewMBC3(make([]uint8, 0x8000), 1, 2, true)

	base := time.Unix(1000, 0)
	var elapsed time.Duration
	mbc.now = func() time.Time { return base.Add(elapsed) }

	mbc.Write(0x0000, 0x0A) // enable RAM/RTC access

	// Select seconds register and set it to 10.
	mbc.Write(0x4000, 0x08)
	mbc.Write(0xA000, 10)

	// Advance fake wall clock by 5 seconds then latch.
	elapsed += 5 * time.Second
	mbc.Write(0x6000, 0x00)
	mbc.Write(0x6000, 0x01)

	if got := mbc.Read(0xA000); got != 15 {
		t.Errorf("latched seconds = %d; want 15", got)
	}

	// Reading again without re-latching must return the same snapshot.
	elapsed += 100 * time.Second
	if got := mbc.Read(0xA000); got != 15 {
		t.Errorf("latched seconds after further elapsed time = %d; want 15 (unlatched)", got)
	}
}

func TestMBC3RTCHalt(t *testing.T) {
	mbc := NewMBC3(make([]uint8, 0x8000), 1, 2, true)
	base := time.Unix(1000, 0)
	var elapsed time.Duration
	mbc.now = func() time.Time { return base.Add(elapsed) }
	mbc.rtcBase = base

	mbc.Write(0x0000, 0x0A)
	mbc.Write(0x4000, 0x0C)
	mbc.Write(0xA000, 0x40) // halt bit set

	elapsed += 1000 * time.Second
	mbc.Write(0x6000, 0x00)
	mbc.Write(0x6000, 0x01)

	mbc.Write(0x4000, 0x08)
	if got := mbc.Read(0xA000); got != 0 {
		t.Errorf("seconds while halted = %d; want 0 (frozen)", got)
	}
}

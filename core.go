// Package gbcore is the top-level DMG emulation core: it wires the SM83
// CPU, timer, PPU and memory bus together behind the small external API a
// front-end needs (New, RunFrame, SetButtons, SRAMSnapshot), and owns
// nothing about how a frame gets drawn or a button gets pressed on the
// host platform — that's a front-end's job.
package gbcore

import (
	"github.com/nullterm/gbcore/addr"
	"github.com/nullterm/gbcore/cpu"
	"github.com/nullterm/gbcore/memory"
	"github.com/nullterm/gbcore/serial"
	"github.com/nullterm/gbcore/video"
)

// CyclesPerFrame is the number of T-cycles in one full DMG frame
// (154 scanlines at 456 cycles each), the unit RunFrame advances by.
const CyclesPerFrame = 70224

// Core is a complete, driveable Game Boy: one cartridge, one CPU, one PPU.
type Core struct {
	cpu *cpu.CPU
	gpu *video.GPU
	mmu *memory.MMU
}

// New constructs a Core from a raw ROM image, optionally seeding
// battery-backed RAM from a previous SRAMSnapshot. Returns an error for a
// malformed or unsupported cartridge header; once constructed, the core
// cannot fail at runtime.
func New(romBytes []byte, sramBytes []byte) (*Core, error) {
	cart, err := memory.NewCartridgeFromROM(romBytes)
	if err != nil {
		return nil, err
	}

	mmu, err := memory.NewWithCartridge(cart)
	if err != nil {
		return nil, err
	}

	if sramBytes != nil {
		mmu.LoadRAM(sramBytes)
	}

	mmu.Serial = serial.NewLogSink(func() { mmu.RequestInterrupt(addr.SerialInterrupt) })

	return &Core{
		cpu: cpu.New(mmu),
		gpu: video.NewGPU(mmu),
		mmu: mmu,
	}, nil
}

// RunFrame advances emulation by one frame's worth of T-cycles: it steps
// the CPU until at least CyclesPerFrame T-cycles have elapsed, so the last
// instruction can carry it a few cycles past that count. It returns the
// framebuffer as it stands at that point.
func (c *Core) RunFrame() *video.FrameBuffer {
	total := 0
	for total < CyclesPerFrame {
		cycles := c.cpu.Step()
		c.mmu.Tick(cycles)
		c.gpu.Tick(cycles)
		total += cycles
	}

	return c.gpu.FrameBuffer()
}

// SetButtons applies the full button state for the upcoming frame(s), as a
// mask over {Right, Left, Up, Down, A, B, Select, Start} in that bit order.
func (c *Core) SetButtons(mask uint8) {
	c.mmu.SetButtonState(mask)
}

// SRAMSnapshot returns a copy of the cartridge's battery-backed RAM, for
// persistence by the front-end. Returns nil for a cartridge with no
// battery-backed RAM.
func (c *Core) SRAMSnapshot() []byte {
	ram := c.mmu.RAMSnapshot()
	if ram == nil {
		return nil
	}
	snapshot := make([]byte, len(ram))
	copy(snapshot, ram)
	return snapshot
}

// Package cpu implements the SM83 CPU core: register file, instruction
// decode/execute, ALU operations and interrupt dispatch.
package cpu

import (
	"github.com/nullterm/gbcore/addr"
	"github.com/nullterm/gbcore/bit"
)

// Flag identifies one of the 4 flag bits living in the high nibble of F.
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// Bus is the memory-mapped interface the CPU reads opcodes, operands and
// data through. *memory.MMU satisfies it.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU holds the SM83 register file and execution state.
type CPU struct {
	bus Bus

	a, b, c, d, e, h, l, f uint8
	sp, pc                 uint16

	currentOpcode uint16

	interruptsEnabled bool
	eiPending         bool
	halted            bool
	stopped           bool

	cycles uint64
}

// New returns a CPU wired to bus, with registers at their documented
// post-boot-ROM values (the state a real DMG is in right after the boot
// ROM hands off to cartridge code at 0x0100).
func New(bus Bus) *CPU {
	c := &CPU{
		bus: bus,
		a:   0x01, f: 0xB0,
		b: 0x00, c: 0x13,
		d: 0x00, e: 0xD8,
		h: 0x01, l: 0x4D,
		sp: 0xFFFE,
		pc: 0x0100,
	}
	return c
}

func (c *CPU) PC() uint16 { return c.pc }
func (c *CPU) SP() uint16 { return c.sp }

// Cycles returns the running total of executed T-cycles.
func (c *CPU) Cycles() uint64 { return c.cycles }

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f&0xF0) }
func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }

func (c *CPU) setAF(value uint16) {
	c.a = bit.High(value)
	c.f = bit.Low(value) & 0xF0
}
func (c *CPU) setBC(value uint16) { c.b = bit.High(value); c.c = bit.Low(value) }
func (c *CPU) setDE(value uint16) { c.d = bit.High(value); c.e = bit.Low(value) }
func (c *CPU) setHL(value uint16) { c.h = bit.High(value); c.l = bit.Low(value) }

func (c *CPU) setFlag(flag Flag)   { c.f |= uint8(flag) }
func (c *CPU) resetFlag(flag Flag) { c.f &^= uint8(flag) }
func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}
func (c *CPU) setFlagToCondition(flag Flag, cond bool) {
	if cond {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

func (c *CPU) readImmediate() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) readImmediateWord() uint16 {
	lo := c.readImmediate()
	hi := c.readImmediate()
	return bit.Combine(hi, lo)
}

func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(value))
	c.sp--
	c.bus.Write(c.sp, bit.Low(value))
}

func (c *CPU) popStack() uint16 {
	lo := c.bus.Read(c.sp)
	c.sp++
	hi := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(hi, lo)
}

// Step executes exactly one instruction (or one idle tick while halted,
// or one interrupt dispatch), applying the one-instruction EI delay and
// HALT wake semantics, and returns the number of T-cycles consumed.
func (c *CPU) Step() int {
	applyEI := c.eiPending
	c.eiPending = false

	if c.halted {
		imeBefore := c.interruptsEnabled
		pending := c.handleInterrupts()
		if pending {
			c.halted = false
		}

		if c.halted {
			if applyEI {
				c.interruptsEnabled = true
			}
			c.cycles += 4
			return 4
		}

		if pending && imeBefore {
			// handleInterrupts already fully serviced the interrupt.
			if applyEI {
				c.interruptsEnabled = true
			}
			return 20
		}
		// Woken with IME off: fall through and execute the instruction
		// right after HALT, unserviced.
	} else {
		imeBefore := c.interruptsEnabled
		if pending := c.handleInterrupts(); pending && imeBefore {
			if applyEI {
				c.interruptsEnabled = true
			}
			return 20
		}
	}

	opcode := Decode(c)
	if c.currentOpcode > 0xFF {
		c.pc += 2
	} else {
		c.pc++
	}

	cycles := opcode(c)
	c.cycles += uint64(cycles)

	if applyEI {
		c.interruptsEnabled = true
	}

	return cycles
}

// handleInterrupts checks IE&IF for the lowest-numbered (highest-priority)
// pending interrupt. It always reports whether one is pending (masked by IE), and
// fully services it — pushing PC, clearing IME and the IF bit, and
// jumping to the fixed vector — whenever IME is set. Dispatch costs
// exactly 20 T-cycles.
func (c *CPU) handleInterrupts() bool {
	ifReg := c.bus.Read(addr.IF)
	ieReg := c.bus.Read(addr.IE)
	pending := ifReg & ieReg & addr.InterruptMask

	if pending == 0 {
		return false
	}

	if !c.interruptsEnabled {
		return true
	}

	var interrupt addr.Interrupt
	var bitIndex uint8
	for i := uint8(0); i < addr.InterruptBitCount; i++ {
		if bit.IsSet(i, pending) {
			interrupt = addr.Interrupt(1 << i)
			bitIndex = i
			break
		}
	}

	c.bus.Write(addr.IF, bit.Reset(bitIndex, ifReg))
	c.interruptsEnabled = false
	c.pushStack(c.pc)
	c.pc = addr.Vector(interrupt)
	c.cycles += 20

	return true
}

package cpu

import (
	"fmt"

	"github.com/nullterm/gbcore/bit"
)

func illegalOpcode(cpu *CPU) int {
	panic(fmt.Sprintf("cpu: illegal opcode 0x%02X at 0x%04X", cpu.currentOpcode, cpu.pc-1))
}

// NOP
func opcode0x00(cpu *CPU) int { return 4 }

// LD BC,nn
func opcode0x01(cpu *CPU) int { cpu.setBC(cpu.readImmediateWord()); return 12 }

// LD (BC),A
func opcode0x02(cpu *CPU) int { cpu.bus.Write(cpu.getBC(), cpu.a); return 8 }

// INC BC
func opcode0x03(cpu *CPU) int { cpu.setBC(cpu.getBC() + 1); return 8 }

// INC B
func opcode0x04(cpu *CPU) int { cpu.inc(&cpu.b); return 4 }

// DEC B
func opcode0x05(cpu *CPU) int { cpu.dec(&cpu.b); return 4 }

// LD B,n
func opcode0x06(cpu *CPU) int { cpu.b = cpu.readImmediate(); return 8 }

// RLCA
func opcode0x07(cpu *CPU) int {
	cpu.rlc(&cpu.a)
	cpu.resetFlag(zeroFlag)
	return 4
}

// LD (nn),SP
func opcode0x08(cpu *CPU) int {
	address := cpu.readImmediateWord()
	cpu.bus.Write(address, bit.Low(cpu.sp))
	cpu.bus.Write(address+1, bit.High(cpu.sp))
	return 20
}

// ADD HL,BC
func opcode0x09(cpu *CPU) int { cpu.addToHL(cpu.getBC()); return 8 }

// LD A,(BC)
func opcode0x0A(cpu *CPU) int { cpu.a = cpu.bus.Read(cpu.getBC()); return 8 }

// DEC BC
func opcode0x0B(cpu *CPU) int { cpu.setBC(cpu.getBC() - 1); return 8 }

// INC C
func opcode0x0C(cpu *CPU) int { cpu.inc(&cpu.c); return 4 }

// DEC C
func opcode0x0D(cpu *CPU) int { cpu.dec(&cpu.c); return 4 }

// LD C,n
func opcode0x0E(cpu *CPU) int { cpu.c = cpu.readImmediate(); return 8 }

// RRCA
func opcode0x0F(cpu *CPU) int {
	cpu.rrc(&cpu.a)
	cpu.resetFlag(zeroFlag)
	return 4
}

// STOP: modeled as an immediate HALT (the CPU idles until an interrupt is
// pending; the timer and PPU keep being ticked, and DIV is not reset). Real
// hardware also consumes a throwaway second byte; we mirror that so PC
// advances the documented 2 bytes.
func opcode0x10(cpu *CPU) int {
	cpu.readImmediate()
	cpu.stopped = true
	cpu.halted = true
	return 4
}

// LD DE,nn
func opcode0x11(cpu *CPU) int { cpu.setDE(cpu.readImmediateWord()); return 12 }

// LD (DE),A
func opcode0x12(cpu *CPU) int { cpu.bus.Write(cpu.getDE(), cpu.a); return 8 }

// INC DE
func opcode0x13(cpu *CPU) int { cpu.setDE(cpu.getDE() + 1); return 8 }

// INC D
func opcode0x14(cpu *CPU) int { cpu.inc(&cpu.d); return 4 }

// DEC D
func opcode0x15(cpu *CPU) int { cpu.dec(&cpu.d); return 4 }

// LD D,n
func opcode0x16(cpu *CPU) int { cpu.d = cpu.readImmediate(); return 8 }

// RLA
func opcode0x17(cpu *CPU) int {
	cpu.rl(&cpu.a)
	cpu.resetFlag(zeroFlag)
	return 4
}

// JR e
func opcode0x18(cpu *CPU) int { cpu.jr(); return 12 }

// ADD HL,DE
func opcode0x19(cpu *CPU) int { cpu.addToHL(cpu.getDE()); return 8 }

// LD A,(DE)
func opcode0x1A(cpu *CPU) int { cpu.a = cpu.bus.Read(cpu.getDE()); return 8 }

// DEC DE
func opcode0x1B(cpu *CPU) int { cpu.setDE(cpu.getDE() - 1); return 8 }

// INC E
func opcode0x1C(cpu *CPU) int { cpu.inc(&cpu.e); return 4 }

// DEC E
func opcode0x1D(cpu *CPU) int { cpu.dec(&cpu.e); return 4 }

// LD E,n
func opcode0x1E(cpu *CPU) int { cpu.e = cpu.readImmediate(); return 8 }

// RRA
func opcode0x1F(cpu *CPU) int {
	cpu.rr(&cpu.a)
	cpu.resetFlag(zeroFlag)
	return 4
}

// JR NZ,e
func opcode0x20(cpu *CPU) int {
	if !cpu.isSetFlag(zeroFlag) {
		cpu.jr()
		return 12
	}
	cpu.readImmediate()
	return 8
}

// LD HL,nn
func opcode0x21(cpu *CPU) int { cpu.setHL(cpu.readImmediateWord()); return 12 }

// LD (HL+),A
func opcode0x22(cpu *CPU) int {
	cpu.bus.Write(cpu.getHL(), cpu.a)
	cpu.setHL(cpu.getHL() + 1)
	return 8
}

// INC HL
func opcode0x23(cpu *CPU) int { cpu.setHL(cpu.getHL() + 1); return 8 }

// INC H
func opcode0x24(cpu *CPU) int { cpu.inc(&cpu.h); return 4 }

// DEC H
func opcode0x25(cpu *CPU) int { cpu.dec(&cpu.h); return 4 }

// LD H,n
func opcode0x26(cpu *CPU) int { cpu.h = cpu.readImmediate(); return 8 }

// DAA
func opcode0x27(cpu *CPU) int { cpu.daa(); return 4 }

// JR Z,e
func opcode0x28(cpu *CPU) int {
	if cpu.isSetFlag(zeroFlag) {
		cpu.jr()
		return 12
	}
	cpu.readImmediate()
	return 8
}

// ADD HL,HL
func opcode0x29(cpu *CPU) int { cpu.addToHL(cpu.getHL()); return 8 }

// LD A,(HL+)
func opcode0x2A(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.getHL())
	cpu.setHL(cpu.getHL() + 1)
	return 8
}

// DEC HL
func opcode0x2B(cpu *CPU) int { cpu.setHL(cpu.getHL() - 1); return 8 }

// INC L
func opcode0x2C(cpu *CPU) int { cpu.inc(&cpu.l); return 4 }

// DEC L
func opcode0x2D(cpu *CPU) int { cpu.dec(&cpu.l); return 4 }

// LD L,n
func opcode0x2E(cpu *CPU) int { cpu.l = cpu.readImmediate(); return 8 }

// CPL
func opcode0x2F(cpu *CPU) int { cpu.cpl(); return 4 }

// JR NC,e
func opcode0x30(cpu *CPU) int {
	if !cpu.isSetFlag(carryFlag) {
		cpu.jr()
		return 12
	}
	cpu.readImmediate()
	return 8
}

// LD SP,nn
func opcode0x31(cpu *CPU) int { cpu.sp = cpu.readImmediateWord(); return 12 }

// LD (HL-),A
func opcode0x32(cpu *CPU) int {
	cpu.bus.Write(cpu.getHL(), cpu.a)
	cpu.setHL(cpu.getHL() - 1)
	return 8
}

// INC SP
func opcode0x33(cpu *CPU) int { cpu.sp++; return 8 }

// INC (HL)
func opcode0x34(cpu *CPU) int {
	value := cpu.bus.Read(cpu.getHL())
	cpu.inc(&value)
	cpu.bus.Write(cpu.getHL(), value)
	return 12
}

// DEC (HL)
func opcode0x35(cpu *CPU) int {
	value := cpu.bus.Read(cpu.getHL())
	cpu.dec(&value)
	cpu.bus.Write(cpu.getHL(), value)
	return 12
}

// LD (HL),n
func opcode0x36(cpu *CPU) int {
	cpu.bus.Write(cpu.getHL(), cpu.readImmediate())
	return 12
}

// SCF
func opcode0x37(cpu *CPU) int { cpu.scf(); return 4 }

// JR C,e
func opcode0x38(cpu *CPU) int {
	if cpu.isSetFlag(carryFlag) {
		cpu.jr()
		return 12
	}
	cpu.readImmediate()
	return 8
}

// ADD HL,SP
func opcode0x39(cpu *CPU) int { cpu.addToHL(cpu.sp); return 8 }

// LD A,(HL-)
func opcode0x3A(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.getHL())
	cpu.setHL(cpu.getHL() - 1)
	return 8
}

// DEC SP
func opcode0x3B(cpu *CPU) int { cpu.sp--; return 8 }

// INC A
func opcode0x3C(cpu *CPU) int { cpu.inc(&cpu.a); return 4 }

// DEC A
func opcode0x3D(cpu *CPU) int { cpu.dec(&cpu.a); return 4 }

// LD A,n
func opcode0x3E(cpu *CPU) int { cpu.a = cpu.readImmediate(); return 8 }

// CCF
func opcode0x3F(cpu *CPU) int { cpu.ccf(); return 4 }

// HALT
func opcode0x76(cpu *CPU) int {
	cpu.halted = true
	return 4
}

// RET NZ
func opcode0xC0(cpu *CPU) int {
	if !cpu.isSetFlag(zeroFlag) {
		cpu.ret()
		return 20
	}
	return 8
}

// POP BC
func opcode0xC1(cpu *CPU) int { cpu.setBC(cpu.popStack()); return 12 }

// JP NZ,nn
func opcode0xC2(cpu *CPU) int {
	target := cpu.readImmediateWord()
	if !cpu.isSetFlag(zeroFlag) {
		cpu.pc = target
		return 16
	}
	return 12
}

// JP nn
func opcode0xC3(cpu *CPU) int { cpu.jp(); return 16 }

// CALL NZ,nn
func opcode0xC4(cpu *CPU) int {
	target := cpu.readImmediateWord()
	if !cpu.isSetFlag(zeroFlag) {
		cpu.pushStack(cpu.pc)
		cpu.pc = target
		return 24
	}
	return 12
}

// PUSH BC
func opcode0xC5(cpu *CPU) int { cpu.pushStack(cpu.getBC()); return 16 }

// ADD A,n
func opcode0xC6(cpu *CPU) int { cpu.addToA(cpu.readImmediate()); return 8 }

// RST 00H
func opcode0xC7(cpu *CPU) int { cpu.pushStack(cpu.pc); cpu.pc = 0x00; return 16 }

// RET Z
func opcode0xC8(cpu *CPU) int {
	if cpu.isSetFlag(zeroFlag) {
		cpu.ret()
		return 20
	}
	return 8
}

// RET
func opcode0xC9(cpu *CPU) int { cpu.ret(); return 16 }

// JP Z,nn
func opcode0xCA(cpu *CPU) int {
	target := cpu.readImmediateWord()
	if cpu.isSetFlag(zeroFlag) {
		cpu.pc = target
		return 16
	}
	return 12
}

// CALL Z,nn
func opcode0xCC(cpu *CPU) int {
	target := cpu.readImmediateWord()
	if cpu.isSetFlag(zeroFlag) {
		cpu.pushStack(cpu.pc)
		cpu.pc = target
		return 24
	}
	return 12
}

// CALL nn
func opcode0xCD(cpu *CPU) int { cpu.call(); return 24 }

// ADC A,n
func opcode0xCE(cpu *CPU) int { cpu.adc(cpu.readImmediate()); return 8 }

// RST 08H
func opcode0xCF(cpu *CPU) int { cpu.pushStack(cpu.pc); cpu.pc = 0x08; return 16 }

// RET NC
func opcode0xD0(cpu *CPU) int {
	if !cpu.isSetFlag(carryFlag) {
		cpu.ret()
		return 20
	}
	return 8
}

// POP DE
func opcode0xD1(cpu *CPU) int { cpu.setDE(cpu.popStack()); return 12 }

// JP NC,nn
func opcode0xD2(cpu *CPU) int {
	target := cpu.readImmediateWord()
	if !cpu.isSetFlag(carryFlag) {
		cpu.pc = target
		return 16
	}
	return 12
}

// CALL NC,nn
func opcode0xD4(cpu *CPU) int {
	target := cpu.readImmediateWord()
	if !cpu.isSetFlag(carryFlag) {
		cpu.pushStack(cpu.pc)
		cpu.pc = target
		return 24
	}
	return 12
}

// PUSH DE
func opcode0xD5(cpu *CPU) int { cpu.pushStack(cpu.getDE()); return 16 }

// SUB n
func opcode0xD6(cpu *CPU) int { cpu.sub(cpu.readImmediate()); return 8 }

// RST 10H
func opcode0xD7(cpu *CPU) int { cpu.pushStack(cpu.pc); cpu.pc = 0x10; return 16 }

// RET C
func opcode0xD8(cpu *CPU) int {
	if cpu.isSetFlag(carryFlag) {
		cpu.ret()
		return 20
	}
	return 8
}

// RETI
func opcode0xD9(cpu *CPU) int {
	cpu.ret()
	cpu.interruptsEnabled = true
	return 16
}

// JP C,nn
func opcode0xDA(cpu *CPU) int {
	target := cpu.readImmediateWord()
	if cpu.isSetFlag(carryFlag) {
		cpu.pc = target
		return 16
	}
	return 12
}

// CALL C,nn
func opcode0xDC(cpu *CPU) int {
	target := cpu.readImmediateWord()
	if cpu.isSetFlag(carryFlag) {
		cpu.pushStack(cpu.pc)
		cpu.pc = target
		return 24
	}
	return 12
}

// SBC A,n
func opcode0xDE(cpu *CPU) int { cpu.sbc(cpu.readImmediate()); return 8 }

// RST 18H
func opcode0xDF(cpu *CPU) int { cpu.pushStack(cpu.pc); cpu.pc = 0x18; return 16 }

// LDH (n),A
func opcode0xE0(cpu *CPU) int {
	offset := cpu.readImmediate()
	cpu.bus.Write(0xFF00+uint16(offset), cpu.a)
	return 12
}

// POP HL
func opcode0xE1(cpu *CPU) int { cpu.setHL(cpu.popStack()); return 12 }

// LD (C),A
func opcode0xE2(cpu *CPU) int { cpu.bus.Write(0xFF00+uint16(cpu.c), cpu.a); return 8 }

// PUSH HL
func opcode0xE5(cpu *CPU) int { cpu.pushStack(cpu.getHL()); return 16 }

// AND n
func opcode0xE6(cpu *CPU) int { cpu.and(cpu.readImmediate()); return 8 }

// RST 20H
func opcode0xE7(cpu *CPU) int { cpu.pushStack(cpu.pc); cpu.pc = 0x20; return 16 }

// ADD SP,e
func opcode0xE8(cpu *CPU) int {
	offset := int8(cpu.readImmediate())
	cpu.sp = cpu.addSPSigned(offset)
	return 16
}

// JP (HL)
func opcode0xE9(cpu *CPU) int { cpu.pc = cpu.getHL(); return 4 }

// LD (nn),A
func opcode0xEA(cpu *CPU) int {
	cpu.bus.Write(cpu.readImmediateWord(), cpu.a)
	return 16
}

// XOR n
func opcode0xEE(cpu *CPU) int { cpu.xor(cpu.readImmediate()); return 8 }

// RST 28H
func opcode0xEF(cpu *CPU) int { cpu.pushStack(cpu.pc); cpu.pc = 0x28; return 16 }

// LDH A,(n)
func opcode0xF0(cpu *CPU) int {
	offset := cpu.readImmediate()
	cpu.a = cpu.bus.Read(0xFF00 + uint16(offset))
	return 12
}

// POP AF
func opcode0xF1(cpu *CPU) int { cpu.setAF(cpu.popStack()); return 12 }

// LD A,(C)
func opcode0xF2(cpu *CPU) int { cpu.a = cpu.bus.Read(0xFF00 + uint16(cpu.c)); return 8 }

// DI
func opcode0xF3(cpu *CPU) int {
	cpu.interruptsEnabled = false
	cpu.eiPending = false
	return 4
}

// PUSH AF
func opcode0xF5(cpu *CPU) int { cpu.pushStack(cpu.getAF()); return 16 }

// OR n
func opcode0xF6(cpu *CPU) int { cpu.or(cpu.readImmediate()); return 8 }

// RST 30H
func opcode0xF7(cpu *CPU) int { cpu.pushStack(cpu.pc); cpu.pc = 0x30; return 16 }

// LD HL,SP+e
func opcode0xF8(cpu *CPU) int {
	offset := int8(cpu.readImmediate())
	cpu.setHL(cpu.addSPSigned(offset))
	return 12
}

// LD SP,HL
func opcode0xF9(cpu *CPU) int { cpu.sp = cpu.getHL(); return 8 }

// LD A,(nn)
func opcode0xFA(cpu *CPU) int {
	cpu.a = cpu.bus.Read(cpu.readImmediateWord())
	return 16
}

// EI: the interrupt master enable takes effect after the instruction
// following this one has executed.
func opcode0xFB(cpu *CPU) int {
	cpu.eiPending = true
	return 4
}

// CP n
func opcode0xFE(cpu *CPU) int { cpu.cp(cpu.readImmediate()); return 8 }

// RST 38H
func opcode0xFF(cpu *CPU) int { cpu.pushStack(cpu.pc); cpu.pc = 0x38; return 16 }

// opcodeTable dispatches every unprefixed opcode. The LD r,r' block
// (0x40-0x7F, minus HALT at 0x76) and the accumulator ALU block
// (0x80-0xBF) are built below by looping over register slots instead of
// being spelled out as 64+64 nearly identical functions.
var opcodeTable = [256]Opcode{
	0x00: opcode0x00, 0x01: opcode0x01, 0x02: opcode0x02, 0x03: opcode0x03,
	0x04: opcode0x04, 0x05: opcode0x05, 0x06: opcode0x06, 0x07: opcode0x07,
	0x08: opcode0x08, 0x09: opcode0x09, 0x0A: opcode0x0A, 0x0B: opcode0x0B,
	0x0C: opcode0x0C, 0x0D: opcode0x0D, 0x0E: opcode0x0E, 0x0F: opcode0x0F,

	0x10: opcode0x10, 0x11: opcode0x11, 0x12: opcode0x12, 0x13: opcode0x13,
	0x14: opcode0x14, 0x15: opcode0x15, 0x16: opcode0x16, 0x17: opcode0x17,
	0x18: opcode0x18, 0x19: opcode0x19, 0x1A: opcode0x1A, 0x1B: opcode0x1B,
	0x1C: opcode0x1C, 0x1D: opcode0x1D, 0x1E: opcode0x1E, 0x1F: opcode0x1F,

	0x20: opcode0x20, 0x21: opcode0x21, 0x22: opcode0x22, 0x23: opcode0x23,
	0x24: opcode0x24, 0x25: opcode0x25, 0x26: opcode0x26, 0x27: opcode0x27,
	0x28: opcode0x28, 0x29: opcode0x29, 0x2A: opcode0x2A, 0x2B: opcode0x2B,
	0x2C: opcode0x2C, 0x2D: opcode0x2D, 0x2E: opcode0x2E, 0x2F: opcode0x2F,

	0x30: opcode0x30, 0x31: opcode0x31, 0x32: opcode0x32, 0x33: opcode0x33,
	0x34: opcode0x34, 0x35: opcode0x35, 0x36: opcode0x36, 0x37: opcode0x37,
	0x38: opcode0x38, 0x39: opcode0x39, 0x3A: opcode0x3A, 0x3B: opcode0x3B,
	0x3C: opcode0x3C, 0x3D: opcode0x3D, 0x3E: opcode0x3E, 0x3F: opcode0x3F,

	0x76: opcode0x76,

	0xC0: opcode0xC0, 0xC1: opcode0xC1, 0xC2: opcode0xC2, 0xC3: opcode0xC3,
	0xC4: opcode0xC4, 0xC5: opcode0xC5, 0xC6: opcode0xC6, 0xC7: opcode0xC7,
	0xC8: opcode0xC8, 0xC9: opcode0xC9, 0xCA: opcode0xCA, 0xCB: illegalOpcode,
	0xCC: opcode0xCC, 0xCD: opcode0xCD, 0xCE: opcode0xCE, 0xCF: opcode0xCF,

	0xD0: opcode0xD0, 0xD1: opcode0xD1, 0xD2: opcode0xD2, 0xD3: illegalOpcode,
	0xD4: opcode0xD4, 0xD5: opcode0xD5, 0xD6: opcode0xD6, 0xD7: opcode0xD7,
	0xD8: opcode0xD8, 0xD9: opcode0xD9, 0xDA: opcode0xDA, 0xDB: illegalOpcode,
	0xDC: opcode0xDC, 0xDD: illegalOpcode, 0xDE: opcode0xDE, 0xDF: opcode0xDF,

	0xE0: opcode0xE0, 0xE1: opcode0xE1, 0xE2: opcode0xE2, 0xE3: illegalOpcode,
	0xE4: illegalOpcode, 0xE5: opcode0xE5, 0xE6: opcode0xE6, 0xE7: opcode0xE7,
	0xE8: opcode0xE8, 0xE9: opcode0xE9, 0xEA: opcode0xEA, 0xEB: illegalOpcode,
	0xEC: illegalOpcode, 0xED: illegalOpcode, 0xEE: opcode0xEE, 0xEF: opcode0xEF,

	0xF0: opcode0xF0, 0xF1: opcode0xF1, 0xF2: opcode0xF2, 0xF3: opcode0xF3,
	0xF4: illegalOpcode, 0xF5: opcode0xF5, 0xF6: opcode0xF6, 0xF7: opcode0xF7,
	0xF8: opcode0xF8, 0xF9: opcode0xF9, 0xFA: opcode0xFA, 0xFB: opcode0xFB,
	0xFC: illegalOpcode, 0xFD: illegalOpcode, 0xFE: opcode0xFE, 0xFF: opcode0xFF,
}

func init() {
	slots := [8]regSlot{slotB, slotC, slotD, slotE, slotH, slotL, slotHLIndirect, slotA}

	// LD r,r' grid: opcode 0b01dddsss, d = dest slot, s = src slot.
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := uint8(0x40) | (dst << 3) | src
			if op == 0x76 {
				continue // HALT, not LD (HL),(HL)
			}
			dstSlot, srcSlot := slots[dst], slots[src]
			cycles := 4
			if dstSlot == slotHLIndirect || srcSlot == slotHLIndirect {
				cycles = 8
			}
			opcodeTable[op] = func(cpu *CPU) int {
				cpu.setSlot(dstSlot, cpu.getSlot(srcSlot))
				return cycles
			}
		}
	}

	// Accumulator ALU grid: opcode 0b10ooosss, o = operation, s = operand slot.
	aluOps := [8]func(cpu *CPU, value uint8){
		func(cpu *CPU, v uint8) { cpu.addToA(v) },
		func(cpu *CPU, v uint8) { cpu.adc(v) },
		func(cpu *CPU, v uint8) { cpu.sub(v) },
		func(cpu *CPU, v uint8) { cpu.sbc(v) },
		func(cpu *CPU, v uint8) { cpu.and(v) },
		func(cpu *CPU, v uint8) { cpu.xor(v) },
		func(cpu *CPU, v uint8) { cpu.or(v) },
		func(cpu *CPU, v uint8) { cpu.cp(v) },
	}
	for operation := uint8(0); operation < 8; operation++ {
		for src := uint8(0); src < 8; src++ {
			op := uint8(0x80) | (operation << 3) | src
			srcSlot := slots[src]
			apply := aluOps[operation]
			cycles := 4
			if srcSlot == slotHLIndirect {
				cycles = 8
			}
			opcodeTable[op] = func(cpu *CPU) int {
				apply(cpu, cpu.getSlot(srcSlot))
				return cycles
			}
		}
	}
}

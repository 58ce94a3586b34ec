package cpu

import "github.com/nullterm/gbcore/bit"

// cbOpcodeTable dispatches every CB-prefixed opcode. All 256 entries
// follow one of 3 completely regular layouts (rotate/shift, BIT, RES/SET
// each crossed with the 8 register slots), so the table is built in
// init() below rather than as 256 near-identical named functions.
var cbOpcodeTable [256]Opcode

func init() {
	slots := [8]regSlot{slotB, slotC, slotD, slotE, slotH, slotL, slotHLIndirect, slotA}

	rotateOps := [8]func(cpu *CPU, r *uint8){
		func(cpu *CPU, r *uint8) { cpu.rlc(r) },
		func(cpu *CPU, r *uint8) { cpu.rrc(r) },
		func(cpu *CPU, r *uint8) { cpu.rl(r) },
		func(cpu *CPU, r *uint8) { cpu.rr(r) },
		func(cpu *CPU, r *uint8) { cpu.sla(r) },
		func(cpu *CPU, r *uint8) { cpu.sra(r) },
		func(cpu *CPU, r *uint8) { cpu.swap(r) },
		func(cpu *CPU, r *uint8) { cpu.srl(r) },
	}

	// 0x00-0x3F: rotate/shift/swap, opcode 0b00ooosss.
	for operation := uint8(0); operation < 8; operation++ {
		for src := uint8(0); src < 8; src++ {
			op := (operation << 3) | src
			slot := slots[src]
			apply := rotateOps[operation]
			cycles := 8
			if slot == slotHLIndirect {
				cycles = 16
			}
			cbOpcodeTable[op] = func(cpu *CPU) int {
				value := cpu.getSlot(slot)
				apply(cpu, &value)
				cpu.setSlot(slot, value)
				return cycles
			}
		}
	}

	// 0x40-0x7F: BIT b,r, opcode 0b01bbbsss.
	for bitIndex := uint8(0); bitIndex < 8; bitIndex++ {
		for src := uint8(0); src < 8; src++ {
			op := uint8(0x40) | (bitIndex << 3) | src
			slot := slots[src]
			index := bitIndex
			cycles := 8
			if slot == slotHLIndirect {
				cycles = 12
			}
			cbOpcodeTable[op] = func(cpu *CPU) int {
				cpu.bitTest(index, cpu.getSlot(slot))
				return cycles
			}
		}
	}

	// 0x80-0xBF: RES b,r, opcode 0b10bbbsss.
	for bitIndex := uint8(0); bitIndex < 8; bitIndex++ {
		for src := uint8(0); src < 8; src++ {
			op := uint8(0x80) | (bitIndex << 3) | src
			slot := slots[src]
			index := bitIndex
			cycles := 8
			if slot == slotHLIndirect {
				cycles = 16
			}
			cbOpcodeTable[op] = func(cpu *CPU) int {
				cpu.setSlot(slot, bit.Reset(index, cpu.getSlot(slot)))
				return cycles
			}
		}
	}

	// 0xC0-0xFF: SET b,r, opcode 0b11bbbsss.
	for bitIndex := uint8(0); bitIndex < 8; bitIndex++ {
		for src := uint8(0); src < 8; src++ {
			op := uint8(0xC0) | (bitIndex << 3) | src
			slot := slots[src]
			index := bitIndex
			cycles := 8
			if slot == slotHLIndirect {
				cycles = 16
			}
			cbOpcodeTable[op] = func(cpu *CPU) int {
				cpu.setSlot(slot, bit.Set(index, cpu.getSlot(slot)))
				return cycles
			}
		}
	}
}

package cpu

// Opcode is a decoded, directly-callable instruction body. It is
// responsible for reading any of its own immediate operands (advancing PC
// further as it does so) and returns the number of T-cycles it took.
type Opcode func(*CPU) int

// Decode peeks the opcode at the CPU's current PC without mutating it,
// records it (0xCByy for CB-prefixed opcodes) in currentOpcode, and
// returns the function that will execute it. The caller is responsible
// for advancing PC past the opcode byte(s) before invoking the returned
// function.
func Decode(c *CPU) Opcode {
	first := c.bus.Read(c.pc)

	if first == 0xCB {
		second := c.bus.Read(c.pc + 1)
		c.currentOpcode = 0xCB00 | uint16(second)
		return cbOpcodeTable[second]
	}

	c.currentOpcode = uint16(first)
	return opcodeTable[first]
}

package cpu

import "github.com/hexaflex/mon80/arch"

// BC returns the BC pair, high byte first.
func (c *CPU) BC() uint16 {
	return uint16(c.B)<<8 | uint16(c.C)
}

// SetBC sets the BC pair.
func (c *CPU) SetBC(v uint16) {
	c.B, c.C = byte(v>>8), byte(v)
}

// DE returns the DE pair.
func (c *CPU) DE() uint16 {
	return uint16(c.D)<<8 | uint16(c.E)
}

// SetDE sets the DE pair.
func (c *CPU) SetDE(v uint16) {
	c.D, c.E = byte(v>>8), byte(v)
}

// HL returns the HL pair.
func (c *CPU) HL() uint16 {
	return uint16(c.H)<<8 | uint16(c.L)
}

// SetHL sets the HL pair.
func (c *CPU) SetHL(v uint16) {
	c.H, c.L = byte(v>>8), byte(v)
}

// PSW returns the program status word: A in the high byte, the flag byte
// in the PSW format in the low byte.
func (c *CPU) PSW() uint16 {
	return uint16(c.A)<<8 | uint16(arch.NormalizeFlags(c.Flags))
}

// SetPSW sets A and the flag byte, normalizing the constant flag bits.
func (c *CPU) SetPSW(v uint16) {
	c.A = byte(v >> 8)
	c.Flags = arch.NormalizeFlags(byte(v))
}

// reg reads an 8-bit register by its 3-bit opcode field. Code 6 (M) reads
// the memory byte addressed by HL.
func (c *CPU) reg(code byte) byte {
	switch code & 7 {
	case arch.RegB:
		return c.B
	case arch.RegC:
		return c.C
	case arch.RegD:
		return c.D
	case arch.RegE:
		return c.E
	case arch.RegH:
		return c.H
	case arch.RegL:
		return c.L
	case arch.RegM:
		return c.mem.Read(c.HL())
	}
	return c.A
}

// setReg writes an 8-bit register by its 3-bit opcode field.
func (c *CPU) setReg(code, value byte) {
	switch code & 7 {
	case arch.RegB:
		c.B = value
	case arch.RegC:
		c.C = value
	case arch.RegD:
		c.D = value
	case arch.RegE:
		c.E = value
	case arch.RegH:
		c.H = value
	case arch.RegL:
		c.L = value
	case arch.RegM:
		c.mem.Write(c.HL(), value)
	default:
		c.A = value
	}
}

// pair reads a 16-bit pair by its 2-bit opcode field (SP in slot 3).
func (c *CPU) pair(code byte) uint16 {
	switch code & 3 {
	case arch.PairBC:
		return c.BC()
	case arch.PairDE:
		return c.DE()
	case arch.PairHL:
		return c.HL()
	}
	return c.SP
}

// setPair writes a 16-bit pair by its 2-bit opcode field.
func (c *CPU) setPair(code byte, v uint16) {
	switch code & 3 {
	case arch.PairBC:
		c.SetBC(v)
	case arch.PairDE:
		c.SetDE(v)
	case arch.PairHL:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// stackPair reads a PUSH/POP pair (PSW in slot 3).
func (c *CPU) stackPair(code byte) uint16 {
	switch code & 3 {
	case arch.StackBC:
		return c.BC()
	case arch.StackDE:
		return c.DE()
	case arch.StackHL:
		return c.HL()
	}
	return c.PSW()
}

// setStackPair writes a PUSH/POP pair.
func (c *CPU) setStackPair(code byte, v uint16) {
	switch code & 3 {
	case arch.StackBC:
		c.SetBC(v)
	case arch.StackDE:
		c.SetDE(v)
	case arch.StackHL:
		c.SetHL(v)
	default:
		c.SetPSW(v)
	}
}

// carry returns the carry flag as a 0/1 byte.
func (c *CPU) carry() byte {
	return c.Flags & arch.FlagCarry
}

// setCarry sets or clears the carry flag, leaving all others alone.
func (c *CPU) setCarry(v bool) {
	if v {
		c.Flags |= arch.FlagCarry
	} else {
		c.Flags &^= arch.FlagCarry
	}
}

// updateArith recomputes the full flag byte after an arithmetic result.
func (c *CPU) updateArith(result byte, carry, aux bool) {
	flags := byte(arch.FlagBit1)
	if result == 0 {
		flags |= arch.FlagZero
	}
	if result&0x80 != 0 {
		flags |= arch.FlagSign
	}
	if parityEven(result) {
		flags |= arch.FlagParity
	}
	if carry {
		flags |= arch.FlagCarry
	}
	if aux {
		flags |= arch.FlagAuxCarry
	}
	c.Flags = flags
}

// updateLogical recomputes the flag byte after a logical result: carry
// always clears, AC is supplied by the operation.
func (c *CPU) updateLogical(result byte, aux bool) {
	c.updateArith(result, false, aux)
}

// updateIncDec recomputes all flags except carry, which INR and DCR
// preserve.
func (c *CPU) updateIncDec(result byte, aux bool) {
	carry := c.Flags & arch.FlagCarry
	c.updateArith(result, false, aux)
	c.Flags |= carry
}

// parityEven reports whether v has an even number of set bits.
func parityEven(v byte) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// fetchByte reads the byte at PC and advances PC.
func (c *CPU) fetchByte() byte {
	b := c.mem.Read(c.PC)
	c.PC++
	return b
}

// fetchWord reads a little-endian word at PC and advances PC by two.
func (c *CPU) fetchWord() uint16 {
	low := uint16(c.fetchByte())
	high := uint16(c.fetchByte())
	return high<<8 | low
}

// readWord reads a little-endian word at the given address.
func (c *CPU) readWord(addr uint16) uint16 {
	low := uint16(c.mem.Read(addr))
	high := uint16(c.mem.Read(addr + 1))
	return high<<8 | low
}

// writeWord writes a little-endian word at the given address.
func (c *CPU) writeWord(addr uint16, v uint16) {
	c.mem.Write(addr, byte(v))
	c.mem.Write(addr+1, byte(v>>8))
}

// push stores a word on the stack: high byte at SP-1, low byte at SP-2.
func (c *CPU) push(v uint16) {
	c.SP -= 2
	c.writeWord(c.SP, v)
}

// pop removes and returns the word at the top of the stack.
func (c *CPU) pop() uint16 {
	v := c.readWord(c.SP)
	c.SP += 2
	return v
}

package cpu

import (
	"fmt"
	"strings"

	"github.com/hexaflex/mon80/arch"
	"github.com/hexaflex/mon80/memory"
)

// Disassemble decodes the instruction at the given address and returns its
// mnemonic text along with its encoded length. Every byte decodes; bytes
// that are data simply read back as the instruction they would execute as.
func Disassemble(mem *memory.Memory, addr uint16) (string, int) {
	op := mem.Read(addr)
	meta := &arch.Opcodes[op]

	// Mnemonics that already carry a register operand take the immediate
	// as a second operand; the rest take it as their first.
	sep := " "
	if strings.ContainsRune(meta.Name, ' ') {
		sep = ","
	}

	switch meta.Size {
	case 2:
		return fmt.Sprintf("%s%s%02Xh", meta.Name, sep, mem.Read(addr+1)), 2
	case 3:
		v := uint16(mem.Read(addr+1)) | uint16(mem.Read(addr+2))<<8
		return fmt.Sprintf("%s%s%04Xh", meta.Name, sep, v), 3
	}
	return meta.Name, 1
}

// String returns a single-line trace of the CPU state: the next
// instruction followed by registers and flag letters.
func (c *CPU) String() string {
	mnemonic, _ := Disassemble(c.mem, c.PC)
	return fmt.Sprintf("%04X: %-12s | A=%02X BC=%04X DE=%04X HL=%04X SP=%04X [%s]",
		c.PC, mnemonic, c.A, c.BC(), c.DE(), c.HL(), c.SP, c.flagString())
}

func (c *CPU) flagString() string {
	letters := []byte("SZAPC")
	masks := []byte{arch.FlagSign, arch.FlagZero, arch.FlagAuxCarry, arch.FlagParity, arch.FlagCarry}
	for i, m := range masks {
		if c.Flags&m == 0 {
			letters[i] = '-'
		}
	}
	return string(letters)
}

package arch

import "strings"

// Flag bit positions in the 8080 flag byte. Bits 1, 3 and 5 are not real
// flags: the PSW format forces them to 1, 0 and 0 respectively.
const (
	FlagCarry    = 0x01 // Bit 0
	FlagBit1     = 0x02 // Bit 1, always 1
	FlagParity   = 0x04 // Bit 2, set on even parity
	FlagAuxCarry = 0x10 // Bit 4, half-carry out of bit 3
	FlagZero     = 0x40 // Bit 6
	FlagSign     = 0x80 // Bit 7
)

// FlagMask covers the five defined flag bits plus the constant bit 1.
// Bits 3 and 5 are forced to zero whenever the flag byte is materialized.
const FlagMask = FlagSign | FlagZero | FlagAuxCarry | FlagParity | FlagBit1 | FlagCarry

// NormalizeFlags forces the constant bits of a raw flag byte into the
// PSW format: bit 1 set, bits 3 and 5 clear.
func NormalizeFlags(flags byte) byte {
	return flags&FlagMask | FlagBit1
}

// 3-bit register codes as they appear in opcode fields. Code 6 (M) denotes
// the memory byte addressed by HL rather than a physical register.
const (
	RegB = 0
	RegC = 1
	RegD = 2
	RegE = 3
	RegH = 4
	RegL = 5
	RegM = 6
	RegA = 7
)

var registerName = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// RegisterName returns the mnemonic name for a 3-bit register code.
func RegisterName(code byte) string {
	return registerName[code&7]
}

// RegisterCode returns the 3-bit code for the given register name.
// Returns -1 if the name is not recognized.
func RegisterCode(name string) int {
	switch strings.ToUpper(name) {
	case "B":
		return RegB
	case "C":
		return RegC
	case "D":
		return RegD
	case "E":
		return RegE
	case "H":
		return RegH
	case "L":
		return RegL
	case "M":
		return RegM
	case "A":
		return RegA
	}
	return -1
}

// 2-bit register pair codes used by LXI, DAD, INX and DCX.
const (
	PairBC = 0
	PairDE = 1
	PairHL = 2
	PairSP = 3
)

var pairName = [4]string{"B", "D", "H", "SP"}

// PairName returns the assembler name for a 2-bit pair code.
func PairName(code byte) string {
	return pairName[code&3]
}

// PairCode returns the 2-bit pair code for the given name.
// Returns -1 if the name is not recognized.
func PairCode(name string) int {
	switch strings.ToUpper(name) {
	case "B", "BC":
		return PairBC
	case "D", "DE":
		return PairDE
	case "H", "HL":
		return PairHL
	case "SP":
		return PairSP
	}
	return -1
}

// PUSH and POP reuse the pair field but slot 3 selects PSW instead of SP.
const (
	StackBC  = 0
	StackDE  = 1
	StackHL  = 2
	StackPSW = 3
)

var stackPairName = [4]string{"B", "D", "H", "PSW"}

// StackPairName returns the assembler name for a PUSH/POP pair code.
func StackPairName(code byte) string {
	return stackPairName[code&3]
}

// StackPairCode returns the PUSH/POP pair code for the given name.
// Returns -1 if the name is not recognized.
func StackPairCode(name string) int {
	switch strings.ToUpper(name) {
	case "B", "BC":
		return StackBC
	case "D", "DE":
		return StackDE
	case "H", "HL":
		return StackHL
	case "PSW", "AF":
		return StackPSW
	}
	return -1
}

// 3-bit condition codes shared by conditional jumps, calls and returns.
const (
	CondNZ = 0
	CondZ  = 1
	CondNC = 2
	CondC  = 3
	CondPO = 4
	CondPE = 5
	CondP  = 6
	CondM  = 7
)

var condName = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

// CondName returns the mnemonic suffix for a 3-bit condition code.
func CondName(code byte) string {
	return condName[code&7]
}

// CondMet reports whether the given condition holds for the given flag byte.
func CondMet(code, flags byte) bool {
	switch code & 7 {
	case CondNZ:
		return flags&FlagZero == 0
	case CondZ:
		return flags&FlagZero != 0
	case CondNC:
		return flags&FlagCarry == 0
	case CondC:
		return flags&FlagCarry != 0
	case CondPO:
		return flags&FlagParity == 0
	case CondPE:
		return flags&FlagParity != 0
	case CondP:
		return flags&FlagSign == 0
	}
	return flags&FlagSign != 0
}

package asm

// plainOpcodes are instructions without operands.
var plainOpcodes = map[string]byte{
	"NOP":  0x00,
	"HLT":  0x76,
	"RLC":  0x07,
	"RRC":  0x0F,
	"RAL":  0x17,
	"RAR":  0x1F,
	"DAA":  0x27,
	"CMA":  0x2F,
	"STC":  0x37,
	"CMC":  0x3F,
	"RET":  0xC9,
	"PCHL": 0xE9,
	"XCHG": 0xEB,
	"XTHL": 0xE3,
	"SPHL": 0xF9,
	"DI":   0xF3,
	"EI":   0xFB,

	"RNZ": 0xC0,
	"RZ":  0xC8,
	"RNC": 0xD0,
	"RC":  0xD8,
	"RPO": 0xE0,
	"RPE": 0xE8,
	"RP":  0xF0,
	"RM":  0xF8,
}

// aluOpcodes take a source register in the low three bits.
var aluOpcodes = map[string]byte{
	"ADD": 0x80,
	"ADC": 0x88,
	"SUB": 0x90,
	"SBB": 0x98,
	"ANA": 0xA0,
	"XRA": 0xA8,
	"ORA": 0xB0,
	"CMP": 0xB8,
}

// regOpcodes take a register in bits 3-5.
var regOpcodes = map[string]byte{
	"INR": 0x04,
	"DCR": 0x05,
}

// pairOpcodes take a register pair in bits 4-5.
var pairOpcodes = map[string]byte{
	"INX": 0x03,
	"DCX": 0x0B,
	"DAD": 0x09,
}

// stackOpcodes take a PUSH/POP pair in bits 4-5.
var stackOpcodes = map[string]byte{
	"PUSH": 0xC5,
	"POP":  0xC1,
}

// immOpcodes take an 8-bit immediate.
var immOpcodes = map[string]byte{
	"ADI": 0xC6,
	"ACI": 0xCE,
	"SUI": 0xD6,
	"SBI": 0xDE,
	"ANI": 0xE6,
	"XRI": 0xEE,
	"ORI": 0xF6,
	"CPI": 0xFE,
	"IN":  0xDB,
	"OUT": 0xD3,
}

// addrOpcodes take a 16-bit address.
var addrOpcodes = map[string]byte{
	"JMP":  0xC3,
	"JNZ":  0xC2,
	"JZ":   0xCA,
	"JNC":  0xD2,
	"JC":   0xDA,
	"JPO":  0xE2,
	"JPE":  0xEA,
	"JP":   0xF2,
	"JM":   0xFA,
	"CALL": 0xCD,
	"CNZ":  0xC4,
	"CZ":   0xCC,
	"CNC":  0xD4,
	"CC":   0xDC,
	"CPO":  0xE4,
	"CPE":  0xEC,
	"CP":   0xF4,
	"CM":   0xFC,
	"LDA":  0x3A,
	"STA":  0x32,
	"LHLD": 0x2A,
	"SHLD": 0x22,
}

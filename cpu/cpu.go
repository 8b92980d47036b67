// Package cpu implements the Intel 8080 interpreter.
package cpu

import (
	"github.com/hexaflex/mon80/arch"
	"github.com/hexaflex/mon80/devices"
	"github.com/hexaflex/mon80/memory"
)

// HaltCycles is the T-state cost of an idle step while the CPU is halted.
const HaltCycles = 7

// CPU holds the architectural state of the 8080 and drives the
// fetch/decode/execute loop. All memory traffic goes through the Memory
// bank and all port traffic through the Bus; the interpreter itself never
// fails, since every byte decodes to a defined instruction.
type CPU struct {
	A, B, C, D, E, H, L byte
	Flags               byte
	SP, PC              uint16

	mem *memory.Memory
	bus *devices.Bus

	halted  bool
	intE    bool
	pending bool
	pendOp  byte

	cycles uint64
}

// New creates a CPU in its power-on state, attached to the given memory
// bank and port bus.
func New(mem *memory.Memory, bus *devices.Bus) *CPU {
	c := &CPU{mem: mem, bus: bus}
	c.Reset()
	return c
}

// Reset returns all architectural state to power-on values. The cycle
// odometer is bookkeeping, not architecture, and keeps counting.
func (c *CPU) Reset() {
	c.A, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0
	c.Flags = arch.NormalizeFlags(0)
	c.SP = 0
	c.PC = 0
	c.halted = false
	c.intE = false
	c.pending = false
}

// Halted returns true if the CPU executed HLT and no interrupt has woken
// it since.
func (c *CPU) Halted() bool {
	return c.halted
}

// InterruptsEnabled returns the state of the interrupt-enable latch.
func (c *CPU) InterruptsEnabled() bool {
	return c.intE
}

// Cycles returns the total number of T-states executed.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Interrupt signals that a device placed the given opcode on the data bus
// during an interrupt acknowledge; conventionally an RST instruction.
// Ignored while interrupts are disabled. Otherwise the interrupt-enable
// latch drops, a halted CPU wakes, and the next Step executes the opcode
// in place of a fetch.
func (c *CPU) Interrupt(opcode byte) {
	if !c.intE {
		return
	}
	c.intE = false
	c.halted = false
	c.pending = true
	c.pendOp = opcode
}

// Step executes one instruction and returns the T-states it consumed.
// A halted CPU idles at HaltCycles per step without advancing PC.
func (c *CPU) Step() int {
	if c.pending {
		c.pending = false
		return c.execute(c.pendOp)
	}
	if c.halted {
		c.cycles += HaltCycles
		return HaltCycles
	}

	op := c.fetchByte()
	if arch.Opcodes[op].Cat == arch.Halt {
		// HLT leaves PC on itself; the halt latch, not the PC, records
		// that the instruction ran.
		c.PC--
	}
	return c.execute(op)
}

// execute runs a single already-fetched opcode. Operand bytes are fetched
// from PC; an injected interrupt opcode therefore behaves exactly as if it
// had been fetched, except that PC never advanced past it.
func (c *CPU) execute(op byte) int {
	meta := &arch.Opcodes[op]
	cycles := meta.Cycles

	switch meta.Cat {
	case arch.Nop:
		// Includes the undocumented 0x08/0x10/../0x38 aliases.

	case arch.Halt:
		c.halted = true

	case arch.Move:
		c.setReg(op>>3&7, c.reg(op&7))

	case arch.MoveImm:
		c.setReg(op>>3&7, c.fetchByte())

	case arch.LoadPairImm:
		c.setPair(op>>4&3, c.fetchWord())

	case arch.ALU:
		c.alu(op>>3&7, c.reg(op&7))

	case arch.ALUImm:
		c.alu(op>>3&7, c.fetchByte())

	case arch.IncReg:
		r := op >> 3 & 7
		v := c.reg(r)
		res := v + 1
		c.setReg(r, res)
		c.updateIncDec(res, v&0x0F == 0x0F)

	case arch.DecReg:
		r := op >> 3 & 7
		v := c.reg(r)
		res := v - 1
		c.setReg(r, res)
		c.updateIncDec(res, v&0x0F == 0x00)

	case arch.IncPair:
		p := op >> 4 & 3
		c.setPair(p, c.pair(p)+1)

	case arch.DecPair:
		p := op >> 4 & 3
		c.setPair(p, c.pair(p)-1)

	case arch.AddPair:
		sum := uint32(c.HL()) + uint32(c.pair(op>>4&3))
		c.SetHL(uint16(sum))
		c.setCarry(sum > 0xFFFF)

	case arch.Rotate:
		c.rotate(op)

	case arch.Decimal:
		c.daa()

	case arch.Complement:
		c.A = ^c.A

	case arch.SetCarry:
		c.setCarry(true)

	case arch.ToggleCarry:
		c.Flags ^= arch.FlagCarry

	case arch.LoadA:
		c.A = c.mem.Read(c.fetchWord())

	case arch.StoreA:
		c.mem.Write(c.fetchWord(), c.A)

	case arch.LoadHL:
		c.SetHL(c.readWord(c.fetchWord()))

	case arch.StoreHL:
		c.writeWord(c.fetchWord(), c.HL())

	case arch.LoadIndirect:
		if op == 0x0A {
			c.A = c.mem.Read(c.BC())
		} else {
			c.A = c.mem.Read(c.DE())
		}

	case arch.StoreIndirect:
		if op == 0x02 {
			c.mem.Write(c.BC(), c.A)
		} else {
			c.mem.Write(c.DE(), c.A)
		}

	case arch.Jump:
		c.PC = c.fetchWord()

	case arch.CondJump:
		addr := c.fetchWord()
		if arch.CondMet(op>>3&7, c.Flags) {
			c.PC = addr
			cycles = meta.Taken
		}

	case arch.Call:
		addr := c.fetchWord()
		c.push(c.PC)
		c.PC = addr

	case arch.CondCall:
		addr := c.fetchWord()
		if arch.CondMet(op>>3&7, c.Flags) {
			c.push(c.PC)
			c.PC = addr
			cycles = meta.Taken
		}

	case arch.Return:
		c.PC = c.pop()

	case arch.CondReturn:
		if arch.CondMet(op>>3&7, c.Flags) {
			c.PC = c.pop()
			cycles = meta.Taken
		}

	case arch.Restart:
		c.push(c.PC)
		c.PC = uint16(op>>3&7) * 8

	case arch.Push:
		c.push(c.stackPair(op >> 4 & 3))

	case arch.Pop:
		c.setStackPair(op>>4&3, c.pop())

	case arch.ExchangeStack:
		v := c.readWord(c.SP)
		c.writeWord(c.SP, c.HL())
		c.SetHL(v)

	case arch.Exchange:
		de, hl := c.DE(), c.HL()
		c.SetDE(hl)
		c.SetHL(de)

	case arch.LoadSP:
		c.SP = c.HL()

	case arch.LoadPC:
		c.PC = c.HL()

	case arch.Input:
		c.A = c.bus.In(c.fetchByte())

	case arch.Output:
		c.bus.Out(c.fetchByte(), c.A)

	case arch.EnableInt:
		c.intE = true

	case arch.DisableInt:
		c.intE = false
	}

	c.cycles += uint64(cycles)
	return cycles
}

// alu performs one of the eight accumulator operations selected by the
// 3-bit operation field shared between the register and immediate forms.
func (c *CPU) alu(operation, v byte) {
	switch operation {
	case 0: // ADD
		c.addA(v, 0)
	case 1: // ADC
		c.addA(v, c.carry())
	case 2: // SUB
		c.A = c.subA(v, 0)
	case 3: // SBB
		c.A = c.subA(v, c.carry())
	case 4: // ANA
		// AC comes out as the OR of the operands' bit 3.
		aux := (c.A|v)&0x08 != 0
		c.A &= v
		c.updateLogical(c.A, aux)
	case 5: // XRA
		c.A ^= v
		c.updateLogical(c.A, false)
	case 6: // ORA
		c.A |= v
		c.updateLogical(c.A, false)
	case 7: // CMP
		c.subA(v, 0)
	}
}

// addA adds v plus a carry-in to the accumulator and sets all flags.
func (c *CPU) addA(v, carryIn byte) {
	sum := uint16(c.A) + uint16(v) + uint16(carryIn)
	aux := (c.A&0x0F)+(v&0x0F)+carryIn > 0x0F
	c.A = byte(sum)
	c.updateArith(c.A, sum > 0xFF, aux)
}

// subA subtracts v plus a borrow-in from the accumulator, sets all flags
// and returns the result without storing it; CMP discards it.
func (c *CPU) subA(v, borrowIn byte) byte {
	res := c.A - v - borrowIn
	borrow := uint16(c.A) < uint16(v)+uint16(borrowIn)
	aux := c.A&0x0F < v&0x0F+borrowIn
	c.updateArith(res, borrow, aux)
	return res
}

// rotate performs RLC, RRC, RAL or RAR. Only the carry flag is affected.
func (c *CPU) rotate(op byte) {
	switch op {
	case 0x07: // RLC
		bit := c.A >> 7
		c.A = c.A<<1 | bit
		c.setCarry(bit != 0)
	case 0x0F: // RRC
		bit := c.A & 1
		c.A = c.A>>1 | bit<<7
		c.setCarry(bit != 0)
	case 0x17: // RAL
		bit := c.A >> 7
		c.A = c.A<<1 | c.carry()
		c.setCarry(bit != 0)
	case 0x1F: // RAR
		bit := c.A & 1
		c.A = c.A>>1 | c.carry()<<7
		c.setCarry(bit != 0)
	}
}

// daa decimal-adjusts the accumulator after BCD addition. Carry is never
// cleared by the adjustment, only set.
func (c *CPU) daa() {
	var correction byte
	carry := c.Flags&arch.FlagCarry != 0

	if c.A&0x0F > 9 || c.Flags&arch.FlagAuxCarry != 0 {
		correction |= 0x06
	}
	if c.A>>4 > 9 || carry || (c.A>>4 == 9 && c.A&0x0F > 9) {
		correction |= 0x60
		carry = true
	}

	aux := (c.A&0x0F)+(correction&0x0F) > 0x0F
	c.A += correction
	c.updateArith(c.A, carry, aux)
}

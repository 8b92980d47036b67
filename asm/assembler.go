// Package asm implements a two-pass assembler for classic Intel 8080
// mnemonics, used to build ROM images and test programs.
package asm

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hexaflex/mon80/arch"
)

// Assembler translates 8080 assembly source into a flat binary. Pass one
// collects labels, pass two emits code; forward references are patched once
// the symbol table is complete.
type Assembler struct {
	addr    uint16
	symbols map[string]uint16
	forward []forwardRef
	output  []byte
	pass    int
	line    int
}

// forwardRef marks a 16-bit hole in the output that needs a label value.
type forwardRef struct {
	label  string
	offset int
	line   int
}

// New creates an empty assembler.
func New() *Assembler {
	return &Assembler{symbols: make(map[string]uint16)}
}

// Symbols returns the symbol table from the last assembly.
func (a *Assembler) Symbols() map[string]uint16 {
	return a.symbols
}

// AssembleFile assembles the given source file and writes the binary to
// the given output path.
func (a *Assembler) AssembleFile(input, output string) error {
	source, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrapf(err, "read %s", input)
	}

	bin, err := a.Assemble(string(source))
	if err != nil {
		return errors.Wrapf(err, "assemble %s", input)
	}

	return errors.Wrapf(os.WriteFile(output, bin, 0644), "write %s", output)
}

// Assemble translates source into a binary image.
func (a *Assembler) Assemble(source string) ([]byte, error) {
	lines := strings.Split(source, "\n")

	a.symbols = make(map[string]uint16)
	for a.pass = 1; a.pass <= 2; a.pass++ {
		a.addr = 0
		a.output = a.output[:0]
		a.forward = a.forward[:0]

		for i, line := range lines {
			a.line = i + 1
			if err := a.processLine(line); err != nil {
				return nil, errors.Wrapf(err, "line %d: %s", a.line, strings.TrimSpace(line))
			}
		}
	}

	if err := a.resolveForward(); err != nil {
		return nil, err
	}
	return a.output, nil
}

// processLine handles one source line: optional label, optional statement,
// optional comment.
func (a *Assembler) processLine(line string) error {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	// LABEL EQU VALUE defines a constant rather than an address.
	if fields := strings.Fields(line); len(fields) >= 3 && strings.EqualFold(fields[1], "EQU") {
		value, err := a.parseNumber(strings.Join(fields[2:], " "))
		if err != nil {
			return err
		}
		return a.define(fields[0], value)
	}

	if i := strings.IndexByte(line, ':'); i >= 0 {
		if err := a.define(strings.TrimSpace(line[:i]), a.addr); err != nil {
			return err
		}
		line = strings.TrimSpace(line[i+1:])
		if line == "" {
			return nil
		}
	}

	mnemonic, operands := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		mnemonic, operands = line[:i], strings.TrimSpace(line[i+1:])
	}
	mnemonic = strings.ToUpper(mnemonic)

	if ok, err := a.directive(mnemonic, operands); ok || err != nil {
		return err
	}
	return a.instruction(mnemonic, operands)
}

// define records a symbol on pass one and rejects duplicates.
func (a *Assembler) define(label string, value uint16) error {
	if a.pass != 1 {
		return nil
	}
	if _, ok := a.symbols[label]; ok {
		return errors.Errorf("duplicate label %s", label)
	}
	a.symbols[label] = value
	return nil
}

// directive handles ORG, END and the data directives. Returns false if the
// mnemonic is not a directive.
func (a *Assembler) directive(mnemonic, operands string) (bool, error) {
	switch mnemonic {
	case "ORG":
		addr, err := a.parseNumber(operands)
		if err != nil {
			return true, err
		}
		a.addr = addr
		return true, nil

	case "END":
		return true, nil

	case "DB", "DEFB":
		for _, operand := range splitOperands(operands) {
			if len(operand) >= 2 && operand[0] == '"' && operand[len(operand)-1] == '"' {
				for i := 1; i < len(operand)-1; i++ {
					a.emit(operand[i])
				}
				continue
			}
			v, err := a.parseExpr(operand)
			if err != nil {
				return true, err
			}
			a.emit(byte(v))
		}
		return true, nil

	case "DW", "DEFW":
		for _, operand := range splitOperands(operands) {
			v, err := a.parseExpr(operand)
			if err != nil {
				return true, err
			}
			a.emitWord(v)
		}
		return true, nil

	case "DS", "DEFS":
		count, err := a.parseNumber(operands)
		if err != nil {
			return true, err
		}
		for i := uint16(0); i < count; i++ {
			a.emit(0)
		}
		return true, nil
	}
	return false, nil
}

// instruction encodes a single 8080 instruction.
func (a *Assembler) instruction(mnemonic, operands string) error {
	if op, ok := plainOpcodes[mnemonic]; ok {
		a.emit(op)
		return nil
	}
	if op, ok := aluOpcodes[mnemonic]; ok {
		code := arch.RegisterCode(operands)
		if code < 0 {
			return errors.Errorf("invalid register %q", operands)
		}
		a.emit(op | byte(code))
		return nil
	}
	if op, ok := regOpcodes[mnemonic]; ok {
		code := arch.RegisterCode(operands)
		if code < 0 {
			return errors.Errorf("invalid register %q", operands)
		}
		a.emit(op | byte(code)<<3)
		return nil
	}
	if op, ok := pairOpcodes[mnemonic]; ok {
		code := arch.PairCode(operands)
		if code < 0 {
			return errors.Errorf("invalid register pair %q", operands)
		}
		a.emit(op | byte(code)<<4)
		return nil
	}
	if op, ok := stackOpcodes[mnemonic]; ok {
		code := arch.StackPairCode(operands)
		if code < 0 {
			return errors.Errorf("invalid register pair %q", operands)
		}
		a.emit(op | byte(code)<<4)
		return nil
	}
	if op, ok := immOpcodes[mnemonic]; ok {
		v, err := a.parseExpr(operands)
		if err != nil {
			return err
		}
		a.emit(op)
		a.emit(byte(v))
		return nil
	}
	if op, ok := addrOpcodes[mnemonic]; ok {
		v, err := a.parseExpr(operands)
		if err != nil {
			return err
		}
		a.emit(op)
		a.emitWord(v)
		return nil
	}

	switch mnemonic {
	case "MOV":
		parts := splitOperands(operands)
		if len(parts) != 2 {
			return errors.New("MOV expects two operands")
		}
		dst, src := arch.RegisterCode(parts[0]), arch.RegisterCode(parts[1])
		if dst < 0 || src < 0 {
			return errors.Errorf("invalid register in %q", operands)
		}
		if dst == arch.RegM && src == arch.RegM {
			return errors.New("MOV M,M does not exist; its slot is HLT")
		}
		a.emit(0x40 | byte(dst)<<3 | byte(src))

	case "MVI":
		parts := splitOperands(operands)
		if len(parts) != 2 {
			return errors.New("MVI expects two operands")
		}
		code := arch.RegisterCode(parts[0])
		if code < 0 {
			return errors.Errorf("invalid register %q", parts[0])
		}
		v, err := a.parseExpr(parts[1])
		if err != nil {
			return err
		}
		a.emit(0x06 | byte(code)<<3)
		a.emit(byte(v))

	case "LXI":
		parts := splitOperands(operands)
		if len(parts) != 2 {
			return errors.New("LXI expects two operands")
		}
		code := arch.PairCode(parts[0])
		if code < 0 {
			return errors.Errorf("invalid register pair %q", parts[0])
		}
		v, err := a.parseExpr(parts[1])
		if err != nil {
			return err
		}
		a.emit(0x01 | byte(code)<<4)
		a.emitWord(v)

	case "LDAX", "STAX":
		code := arch.PairCode(operands)
		if code != arch.PairBC && code != arch.PairDE {
			return errors.Errorf("%s takes B or D, not %q", mnemonic, operands)
		}
		op := byte(0x0A)
		if mnemonic == "STAX" {
			op = 0x02
		}
		a.emit(op | byte(code)<<4)

	case "RST":
		n, err := a.parseNumber(operands)
		if err != nil {
			return err
		}
		if n > 7 {
			return errors.Errorf("RST vector %d out of range", n)
		}
		a.emit(0xC7 | byte(n)<<3)

	default:
		return errors.Errorf("invalid mnemonic %q", mnemonic)
	}
	return nil
}

// parseExpr resolves a symbol, the location counter or a literal.
func (a *Assembler) parseExpr(expr string) (uint16, error) {
	expr = strings.TrimSpace(expr)

	if expr == "$" {
		return a.addr, nil
	}

	if len(expr) > 0 && (isAlpha(expr[0]) || expr[0] == '_') {
		if v, ok := a.symbols[expr]; ok {
			return v, nil
		}
		// Hex literals may start with a letter (F000h); a name that is not
		// a symbol but reads as a number is taken as that number.
		if v, err := a.parseNumber(expr); err == nil {
			return v, nil
		}
		if a.pass == 2 {
			// Leave a hole; resolveForward patches it at the end.
			a.forward = append(a.forward, forwardRef{expr, len(a.output), a.line})
		}
		return 0, nil
	}

	return a.parseNumber(expr)
}

// parseNumber handles 12h, 1010b, 17o/17q, 0x12, 'A' and plain decimal.
func (a *Assembler) parseNumber(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing value")
	}

	if len(s) == 3 && s[0] == '\'' && s[2] == '\'' {
		return uint16(s[1]), nil
	}

	parse := func(body string, base int) (uint16, error) {
		v, err := strconv.ParseUint(body, base, 16)
		if err != nil {
			return 0, errors.Errorf("invalid number %q", s)
		}
		return uint16(v), nil
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x"):
		return parse(s[2:], 16)
	case strings.HasSuffix(lower, "h"):
		return parse(s[:len(s)-1], 16)
	case strings.HasSuffix(lower, "b"):
		return parse(s[:len(s)-1], 2)
	case strings.HasSuffix(lower, "o"), strings.HasSuffix(lower, "q"):
		return parse(s[:len(s)-1], 8)
	}
	return parse(s, 10)
}

// resolveForward patches every recorded hole with its symbol value.
func (a *Assembler) resolveForward() error {
	for _, ref := range a.forward {
		target, ok := a.symbols[ref.label]
		if !ok {
			return errors.Errorf("line %d: undefined symbol %s", ref.line, ref.label)
		}
		if ref.offset+1 < len(a.output) {
			a.output[ref.offset] = byte(target)
			a.output[ref.offset+1] = byte(target >> 8)
		}
	}
	return nil
}

// emit appends one byte on pass two and advances the location counter.
func (a *Assembler) emit(b byte) {
	if a.pass == 2 {
		a.output = append(a.output, b)
	}
	a.addr++
}

// emitWord appends a little-endian word.
func (a *Assembler) emitWord(v uint16) {
	a.emit(byte(v))
	a.emit(byte(v >> 8))
}

func splitOperands(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isAlpha(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

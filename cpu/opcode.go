package cpu

import (
	"fmt"
)

// Code is a single 16-bit instruction word.
type Code uint16

// CodeOp is a decoded instruction operation.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_HALT = CodeOp(0) // halt
	OP_RET  = CodeOp(1) // ret
	OP_CALL = CodeOp(2) // call
	OP_ADD  = CodeOp(3) // add
)

// codePattern matches an instruction word to an operation when
// (word & mask) == match.
type codePattern struct {
	Mask  Code
	Match Code
	Op    CodeOp
}

// codeTable is the instruction table. Patterns must be mutually exclusive.
var codeTable = []codePattern{
	{0xffff, 0x0000, OP_HALT},
	{0xffff, 0x00ee, OP_RET},
	{0xf000, 0x2000, OP_CALL},
	{0xf00f, 0x8004, OP_ADD},
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op   CodeOp
	X    uint8  // Destination register, for OP_ADD.
	Y    uint8  // Source register, for OP_ADD.
	Addr uint16 // Target address, for OP_CALL.
	Code Code   // Word this instruction was decoded from.
}

// MakeCodeHalt creates the halt instruction.
func MakeCodeHalt() Code {
	return 0x0000
}

// MakeCodeRet creates a subroutine return instruction.
func MakeCodeRet() Code {
	return 0x00ee
}

// MakeCodeCall creates a subroutine call to a 12-bit address.
func MakeCodeCall(addr uint16) Code {
	return Code(0x2000 | (addr & 0x0fff))
}

// MakeCodeAdd creates a vX += vY instruction.
func MakeCodeAdd(x, y uint8) Code {
	return Code(0x8004 | (uint16(x&0xf) << 8) | (uint16(y&0xf) << 4))
}

// Class returns the instruction class nibble (bits 12-15).
func (code Code) Class() uint8 {
	return uint8((code >> 12) & 0xf)
}

// X returns bits 8-11, usually a register index.
func (code Code) X() uint8 {
	return uint8((code >> 8) & 0xf)
}

// Y returns bits 4-7, usually a register index.
func (code Code) Y() uint8 {
	return uint8((code >> 4) & 0xf)
}

// D returns bits 0-3, the sub-operation selector.
func (code Code) D() uint8 {
	return uint8((code >> 0) & 0xf)
}

// Nnn returns the 12-bit address or immediate in bits 0-11.
func (code Code) Nnn() uint16 {
	return uint16(code & 0x0fff)
}

// Nibbles returns the four nibbles, most significant first.
func (code Code) Nibbles() (c, x, y, d uint8) {
	return code.Class(), code.X(), code.Y(), code.D()
}

// Decode maps an instruction word to its Instruction.
// Words matching no instruction pattern return ErrOpcode.
func Decode(code Code) (inst Instruction, err error) {
	for _, pattern := range codeTable {
		if code&pattern.Mask != pattern.Match {
			continue
		}
		inst = Instruction{Op: pattern.Op, Code: code}
		switch pattern.Op {
		case OP_CALL:
			inst.Addr = code.Nnn()
		case OP_ADD:
			inst.X = code.X()
			inst.Y = code.Y()
		}
		return
	}

	err = ErrOpcode(code)
	return
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() string {
	switch inst.Op {
	case OP_CALL:
		return fmt.Sprintf("%v 0x%03x", inst.Op, inst.Addr)
	case OP_ADD:
		return fmt.Sprintf("%v v%x v%x", inst.Op, inst.X, inst.Y)
	default:
		return inst.Op.String()
	}
}

// String returns the disassembly of the word, or its hex value if it
// does not decode.
func (code Code) String() string {
	inst, err := Decode(code)
	if err != nil {
		return fmt.Sprintf(".word 0x%04x", uint16(code))
	}
	return inst.String()
}

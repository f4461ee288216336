package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated bytes.
type Opcode struct {
	LineNo    int
	Addr      uint16
	Words     []string
	Data      []byte
	LinkLabel string
}

// Program is an assembled memory image plus its listing.
type Program struct {
	Entry   uint16 // Initial Pc.
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int // Byte offset of the address into Opcode.Data.
}

// Debug finds the opcode covering addr.
// The returned Opcode is nil if no opcode covers addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= int(op.Addr) && int(addr) < int(op.Addr)+len(op.Data) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr - op.Addr),
			}
			break
		}
	}

	return
}

// Bytes iterates over every assembled byte and its address.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(addr uint16, data byte) bool) {
		for _, op := range prog.Opcodes {
			for n, data := range op.Data {
				if !yield(op.Addr+uint16(n), data) {
					return
				}
			}
		}
	}
}

// Load writes the program into memory and sets Pc to the entry point.
func (prog *Program) Load(cpu *Cpu) (err error) {
	for _, op := range prog.Opcodes {
		err = cpu.Load(op.Addr, op.Data)
		if err != nil {
			return
		}
	}

	cpu.Pc = prog.Entry
	return
}

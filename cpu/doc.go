// Package cpu implements the interpreter and assembler for a CHIP-8 style
// virtual machine.
//
// The machine consists of 4KiB of byte addressable memory shared by code and
// data, sixteen 8-bit registers (v0-vf, with vf doubling as the carry flag),
// a sixteen entry call stack, and a program counter. Instructions are 16-bit
// big-endian words, decoded into nibbles and dispatched through a table of
// mutually exclusive patterns.
//
// The assembler provides a small assembly language for the implemented
// instruction subset, supporting labels, equates, origin and data
// directives, and compile-time expression evaluation.
package cpu

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

const (
	MEMORY_SIZE    = 0x1000 // Bytes of addressable memory.
	REGISTER_COUNT = 16     // General purpose registers v0-vf.
	REGISTER_FLAG  = 0xf    // Carry flag register.
	PROGRAM_START  = 0x200  // Conventional load address of ROM images.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("0x%x", MEMORY_SIZE),
	"STACK_LIMIT":   fmt.Sprintf("%d", STACK_LIMIT),
	"REGISTER_FLAG": fmt.Sprintf("0x%x", REGISTER_FLAG),
	"PROGRAM_START": fmt.Sprintf("0x%x", PROGRAM_START),
}

// Cpu is the complete state of the virtual machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [MEMORY_SIZE]uint8    // Code and data.
	Register [REGISTER_COUNT]uint8 // Register bank.
	Stack    Stack                 // Call stack.
	Pc       uint16                // Address of the next instruction.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new, zeroed, CPU.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, registers, and the stack.
// - Zeros the program counter and statistics counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Stack.Reset()
	cpu.Pc = 0
	cpu.Ticks = 0
}

// Load copies data into memory starting at addr.
// Nothing is written if data does not fit.
func (cpu *Cpu) Load(addr uint16, data []byte) (err error) {
	if int(addr)+len(data) > len(cpu.Memory) {
		err = ErrMemoryRange
		return
	}

	copy(cpu.Memory[addr:], data)
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "   pc: %03X\n", cpu.Pc)
	for n, val := range cpu.Register {
		fmt.Fprintf(&sb, "   v%X: %02X\n", n, val)
	}
	val, ok := cpu.Stack.Peek()
	if ok {
		fmt.Fprintf(&sb, "stack: %03X (%d)\n", val, cpu.Stack.Depth())
	} else {
		fmt.Fprintf(&sb, "stack: ---\n")
	}

	return sb.String()
}

// FetchCode reads the big-endian instruction word at Pc.
// Pc is not advanced.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	pc := int(cpu.Pc)
	if pc+1 >= len(cpu.Memory) {
		err = ErrFetchRange
		return
	}

	code = Code(uint16(cpu.Memory[pc])<<8 | uint16(cpu.Memory[pc+1]))
	return
}

// Tick executes a single instruction cycle.
// Faults are returned as *ErrFault.
func (cpu *Cpu) Tick() (halted bool, err error) {
	pc := cpu.Pc

	code, err := cpu.FetchCode()
	if err == nil {
		cpu.Pc += 2

		var inst Instruction
		inst, err = Decode(code)
		if err == nil {
			halted, err = cpu.Execute(inst)
		}
	}

	if err != nil {
		err = &ErrFault{Pc: pc, Code: code, Err: err}
	}

	return
}

// Run executes instructions until halt or a fault.
// A nil return means the machine halted.
func (cpu *Cpu) Run() (err error) {
	for halted := false; !halted; {
		halted, err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction.
// Pc must already be advanced past the instruction.
func (cpu *Cpu) Execute(inst Instruction) (halted bool, err error) {
	if cpu.Verbose {
		log.Printf("%03x: %v", cpu.Pc-2, inst)
	}

	switch inst.Op {
	case OP_HALT:
		halted = true
	case OP_RET:
		err = cpu.ret()
	case OP_CALL:
		err = cpu.call(inst.Addr)
	case OP_ADD:
		cpu.addXY(inst.X, inst.Y)
	default:
		err = ErrOpcode(inst.Code)
	}

	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// call pushes the return address and transfers control to addr.
func (cpu *Cpu) call(addr uint16) (err error) {
	if !cpu.Stack.Push(cpu.Pc) {
		err = ErrStackOverflow
		return
	}

	cpu.Pc = addr
	return
}

// ret pops the return address into Pc.
func (cpu *Cpu) ret() (err error) {
	addr, ok := cpu.Stack.Pop()
	if !ok {
		err = ErrStackUnderflow
		return
	}

	cpu.Pc = addr
	return
}

// addXY adds vy to vx, modulo 256, and sets vf to the carry.
func (cpu *Cpu) addXY(x, y uint8) {
	sum := uint16(cpu.Register[x]) + uint16(cpu.Register[y])

	cpu.Register[x] = uint8(sum)
	cpu.Register[REGISTER_FLAG] = uint8(sum >> 8)
}

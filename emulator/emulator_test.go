package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(0, emu.MaxTicks)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0xfff", defines["ADDRESS_MASK"])
	assert.Equal("0x200", defines["PROGRAM_START"])
}

func assemble(emu *Emulator, t *testing.T, program ...string) {
	asm := emu.Assembler()
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog
}

func TestEmulator_Run(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(emu, t,
		".org PROGRAM_START",
		"start: call twice",
		"       call twice",
		"       halt",
		"twice: add v0 v1",
		"       add v0 v1",
		"       ret",
	)

	assert.NoError(emu.Reset())
	assert.Equal(cpu.PROGRAM_START, emu.Pc())
	assert.Equal(cpu.MakeCodeCall(0x206), emu.Code())
	assert.Equal(2, emu.LineNo())

	emu.Cpu.Register[0] = 5
	emu.Cpu.Register[1] = 10

	assert.NoError(emu.Run())
	assert.Equal(uint8(45), emu.Cpu.Register[0])
	assert.Equal(uint8(0), emu.Cpu.Register[cpu.REGISTER_FLAG])
	assert.Equal(9, emu.Ticks())
}

func TestEmulator_Tick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"call sub",
		"halt",
		"sub: add v2 v3",
		"ret",
	}
	assemble(emu, t, program...)
	assert.NoError(emu.Reset())

	lines := []int{1, 3, 4, 2}
	for n, line := range lines {
		assert.Equal(line, emu.LineNo(), program[line-1])
		done, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(n == len(lines)-1, done)
	}
}

func TestEmulator_Fault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(emu, t,
		"add v0 v1",
		"ret",
	)
	assert.NoError(emu.Reset())

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrStackUnderflow)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(2, runtime.LineNo)
	}

	fault, ok := Fault(err)
	if assert.True(ok) {
		assert.Equal(uint16(2), fault.Pc)
		assert.Equal(cpu.MakeCodeRet(), fault.Code)
	}

	_, ok = Fault(errors.New("other"))
	assert.False(ok)
}

func TestEmulator_Unimplemented(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(emu, t,
		"add v0 v1",
		".word 0xf00d",
	)
	assert.NoError(emu.Reset())

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrOpcode(0))
	assert.Contains(err.Error(), "line 2")
	assert.Contains(err.Error(), "0xf00d")
}

func TestEmulator_TickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.MaxTicks = 3
	assemble(emu, t,
		"add v0 v1",
		"add v0 v1",
		"add v0 v1",
		"add v0 v1",
		"halt",
	)
	assert.NoError(emu.Reset())
	emu.Cpu.Register[1] = 1

	err := emu.Run()
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(uint8(3), emu.Cpu.Register[0])

	_, ok := Fault(err)
	assert.False(ok)

	// Reset restarts the budget.
	emu.MaxTicks = 5
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run())
}

func TestEmulator_ResetRange(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = &cpu.Program{
		Opcodes: []cpu.Opcode{{Addr: 0xfff, Data: []byte{0, 0}}},
	}

	assert.ErrorIs(emu.Reset(), cpu.ErrMemoryRange)
}

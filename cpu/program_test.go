package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Entry: 0x200,
		Opcodes: []Opcode{
			{LineNo: 1, Addr: 0x200, Words: []string{"call", "0x300"}, Data: []byte{0x23, 0x00}},
			{LineNo: 2, Addr: 0x202, Words: []string{"halt"}, Data: []byte{0x00, 0x00}},
			{LineNo: 4, Addr: 0x300, Words: []string{"add", "v2", "v3"}, Data: []byte{0x82, 0x34}},
			{LineNo: 5, Addr: 0x302, Words: []string{"ret"}, Data: []byte{0x00, 0xee}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0x301)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(4, dbg.LineNo)
		assert.Equal(1, dbg.Index)
	}

	dbg = prog.Debug(0x202)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(2, dbg.LineNo)
		assert.Equal(0, dbg.Index)
	}

	dbg = prog.Debug(0x204)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Bytes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	image := map[uint16]byte{}
	for addr, data := range prog.Bytes() {
		image[addr] = data
	}
	assert.Equal(8, len(image))
	assert.Equal(byte(0x23), image[0x200])
	assert.Equal(byte(0xee), image[0x303])

	count := 0
	for range prog.Bytes() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(3, count)
}

func TestProgram_Load(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	cpu := NewCpu()
	cpu.Register[2] = 200
	cpu.Register[3] = 100
	assert.NoError(prog.Load(cpu))
	assert.Equal(uint16(0x200), cpu.Pc)

	assert.NoError(cpu.Run())
	assert.Equal(uint8(44), cpu.Register[2])
	assert.Equal(uint8(1), cpu.Register[REGISTER_FLAG])

	prog.Opcodes = append(prog.Opcodes, Opcode{Addr: 0xfff, Data: []byte{1, 2}})
	assert.ErrorIs(prog.Load(cpu), ErrMemoryRange)
}

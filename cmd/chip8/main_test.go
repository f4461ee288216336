package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/cpu"
)

func execute(args ...string) (output string, err error) {
	var out bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err = root.Execute()
	output = out.String()
	return
}

func writeFile(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAdd(t *testing.T) {
	assert := assert.New(t)

	output, err := execute("add", "5", "10")
	assert.NoError(err)
	assert.Equal("5 + (10 * 2) + (10 * 2) = 45 (vf 0)\n", output)

	output, err = execute("add", "0xfa", "1")
	assert.NoError(err)
	assert.Contains(output, "= 254 (vf 0)")

	output, err = execute("add", "200", "20")
	assert.NoError(err)
	assert.Contains(output, "= 24 (vf 0)")

	// The first add overflows; only the last add's flag is shown.
	output, err = execute("add", "250", "10")
	assert.NoError(err)
	assert.Contains(output, "= 34 (vf 0)")

	_, err = execute("add", "256", "1")
	assert.Error(err)

	_, err = execute("add", "1")
	assert.Error(err)
}

func TestRunAsm(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, "prog.s", []byte(
		".org PROGRAM_START\n"+
			"start: add v0 v1 ; carry\n"+
			"       halt\n"))

	output, err := execute("run", "--asm", path, "--reg", "v0=250", "--reg", "V1=0x0a", "--dump", "yaml")
	assert.NoError(err)
	assert.Contains(output, "halted after 2 instructions")
	assert.Contains(output, "v0: 4\n")
	assert.Contains(output, "vf: 1\n")
}

func TestRunRom(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, "prog.rom", []byte{0x80, 0x14, 0x00, 0x00})

	output, err := execute("run", "--rom", path, "--reg", "v0=1", "--reg", "v1=2", "--dump", "yaml")
	assert.NoError(err)
	assert.Contains(output, "v0: 3\n")
	assert.Contains(output, "pc: 516\n")

	output, err = execute("run", "--rom", path, "--base", "0x300", "--dump", "table")
	assert.NoError(err)
	assert.Contains(output, "304")
	assert.Contains(output, "register")
}

func TestRunImage(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	assert.NoError(os.WriteFile(filepath.Join(dir, "twice.rom"), []byte{0x80, 0x14, 0x80, 0x14, 0x00, 0xee}, 0o644))
	image := filepath.Join(dir, "demo.yaml")
	assert.NoError(os.WriteFile(image, []byte(
		"registers: {v0: 5, v1: 10}\n"+
			"segments:\n"+
			"  - {addr: 0x000, data: \"2100 2100 0000\"}\n"+
			"  - {addr: 0x100, file: twice.rom}\n"), 0o644))

	output, err := execute("run", "--image", image, "--dump", "yaml")
	assert.NoError(err)
	assert.Contains(output, "v0: 45\n")
	assert.Contains(output, "vf: 0\n")
}

func TestRunFault(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, "prog.s", []byte("add v0 v1\nret\n"))

	output, err := execute("run", "--asm", path, "--dump", "none")
	assert.ErrorIs(err, cpu.ErrStackUnderflow)
	assert.Contains(output, "line 2")

	path = writeFile(t, "loop.s", []byte("add v0 v1\nadd v0 v1\nhalt\n"))
	_, err = execute("run", "--asm", path, "--max-ticks", "1", "--dump", "none")
	assert.Error(err)
}

func TestRunErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := execute("run")
	assert.ErrorIs(err, errSource)

	path := writeFile(t, "prog.rom", []byte{0x00, 0x00})

	_, err = execute("run", "--rom", path, "--asm", path)
	assert.ErrorIs(err, errSource)

	_, err = execute("run", "--rom", path, "--reg", "v0")
	assert.Error(err)

	_, err = execute("run", "--rom", path, "--reg", "vz=1")
	assert.ErrorIs(err, cpu.ErrRegisterInvalid)

	_, err = execute("run", "--rom", path, "--reg", "v0=300")
	assert.Error(err)

	_, err = execute("run", "--rom", path, "--dump", "xml")
	assert.Error(err)

	_, err = execute("run", "--rom", path, "--base", "0xfff")
	assert.ErrorIs(err, cpu.ErrMemoryRange)

	bad := writeFile(t, "bad.s", []byte("call nowhere\n"))
	_, err = execute("run", "--asm", bad)
	assert.ErrorIs(err, cpu.ErrLabelMissing("nowhere"))
}

package rom

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/chip8/cpu"
)

// State is a snapshot of the machine after a run.
type State struct {
	Pc        uint16           `yaml:"pc"`
	Registers map[string]uint8 `yaml:"registers"`
	Stack     []uint16         `yaml:"stack,omitempty"` // oldest first
	Ticks     int              `yaml:"ticks"`
}

// Snapshot captures the registers, stack, and program counter of c.
func Snapshot(c *cpu.Cpu) *State {
	st := &State{
		Pc:        c.Pc,
		Registers: make(map[string]uint8, len(c.Register)),
		Ticks:     c.Ticks,
	}

	for n, value := range c.Register {
		st.Registers[fmt.Sprintf("v%x", n)] = value
	}
	if depth := c.Stack.Depth(); depth > 0 {
		st.Stack = append([]uint16(nil), c.Stack.Data[:depth]...)
	}

	return st
}

// Encode writes the snapshot as YAML.
func (st *State) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return enc.Close()
}

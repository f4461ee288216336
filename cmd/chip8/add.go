package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/translate"
)

// addProgram adds v1 into v0 four times, through two calls of a
// subroutine doing two adds each.
var addProgram = []string{
	"start:  call twice",
	"        call twice",
	"        halt",
	".org 0x100",
	"twice:  add v0 v1",
	"        add v0 v1",
	"        ret",
}

func addCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "add A B",
		Short: "Compute A + 4*B with the demonstration program",
		Long: "Compute A + 4*B with the demonstration program.\n" +
			"The printed vf is the carry flag of the last add only.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var operand [2]uint8
			for n, arg := range args {
				v, err := strconv.ParseUint(arg, 0, 8)
				if err != nil {
					return fmt.Errorf("operand %q: %w", arg, err)
				}
				operand[n] = uint8(v)
			}

			emu := emulator.NewEmulator()
			emu.Verbose = *verbose

			prog, err := emu.Assembler().Parse(strings.NewReader(strings.Join(addProgram, "\n")))
			if err != nil {
				return err
			}
			emu.Program = prog
			if err := emu.Reset(); err != nil {
				return err
			}

			emu.Cpu.Register[0] = operand[0]
			emu.Cpu.Register[1] = operand[1]

			if err := emu.Run(); err != nil {
				return err
			}

			translate.Printer().Fprintf(cmd.OutOrStdout(), "%d + (%d * 2) + (%d * 2) = %d (vf %d)\n",
				operand[0], operand[1], operand[1],
				emu.Cpu.Register[0], emu.Cpu.Register[cpu.REGISTER_FLAG])
			return nil
		},
	}
}

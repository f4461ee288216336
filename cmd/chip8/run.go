package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/internal/ui"
	"github.com/ezrec/chip8/rom"
)

var errSource = errors.New("exactly one of --asm, --rom, or --image is required")

type runOptions struct {
	asm      string
	rom      string
	base     uint16
	image    string
	regs     []string
	maxTicks int
	dump     string
}

func runCmd(verbose *bool) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a program, run it to halt, and print the machine state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emu := emulator.NewEmulator()
			emu.Verbose = *verbose
			emu.MaxTicks = opts.maxTicks

			if err := opts.load(emu); err != nil {
				return err
			}
			if err := presetRegisters(emu.Cpu, opts.regs); err != nil {
				return err
			}

			runErr := emu.Run()
			out := cmd.OutOrStdout()
			if runErr != nil {
				fmt.Fprintln(out, ui.ErrorMsg("%v", runErr))
			} else {
				fmt.Fprintln(out, ui.SuccessMsg("halted after %d instructions", emu.Ticks()))
			}

			if err := dumpState(out, emu.Cpu, opts.dump); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&opts.asm, "asm", "c", "", "Assembly source file")
	cmd.Flags().StringVarP(&opts.rom, "rom", "r", "", "Raw ROM image")
	cmd.Flags().Uint16VarP(&opts.base, "base", "b", cpu.PROGRAM_START, "Load and entry address of --rom")
	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "YAML machine image")
	cmd.Flags().StringArrayVar(&opts.regs, "reg", nil, "Preset a register, as vX=N (repeatable)")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", emulator.DEFAULT_MAX_TICKS, "Stop after N instructions (0 is unlimited)")
	cmd.Flags().StringVar(&opts.dump, "dump", "table", "Final state format: table, yaml, or none")

	return cmd
}

// load resets the emulator and places the selected program in memory.
func (opts *runOptions) load(emu *emulator.Emulator) error {
	sources := 0
	for _, src := range []string{opts.asm, opts.rom, opts.image} {
		if src != "" {
			sources++
		}
	}
	if sources != 1 {
		return errSource
	}

	switch {
	case opts.asm != "":
		inf, err := os.Open(opts.asm)
		if err != nil {
			return err
		}
		defer inf.Close()

		prog, err := emu.Assembler().Parse(inf)
		if err != nil {
			return fmt.Errorf("%v: %w", opts.asm, err)
		}
		emu.Program = prog
		return emu.Reset()
	case opts.rom != "":
		if err := emu.Reset(); err != nil {
			return err
		}
		inf, err := os.Open(opts.rom)
		if err != nil {
			return err
		}
		defer inf.Close()

		if _, err := rom.Load(emu.Cpu, opts.base, inf); err != nil {
			return fmt.Errorf("%v: %w", opts.rom, err)
		}
		emu.Cpu.Pc = opts.base
		return nil
	default:
		if err := emu.Reset(); err != nil {
			return err
		}
		inf, err := os.Open(opts.image)
		if err != nil {
			return err
		}
		defer inf.Close()

		img, err := rom.ParseImage(inf)
		if err != nil {
			return fmt.Errorf("%v: %w", opts.image, err)
		}
		if err := img.Apply(emu.Cpu, os.DirFS(filepath.Dir(opts.image))); err != nil {
			return fmt.Errorf("%v: %w", opts.image, err)
		}
		return nil
	}
}

// presetRegisters applies vX=N assignments.
func presetRegisters(c *cpu.Cpu, regs []string) error {
	for _, reg := range regs {
		name, value, ok := strings.Cut(reg, "=")
		if !ok {
			return fmt.Errorf("--reg %q: expected vX=N", reg)
		}
		index, err := rom.RegisterIndex(strings.TrimSpace(name))
		if err != nil {
			return fmt.Errorf("--reg: %w", err)
		}
		v, err := strconv.ParseUint(strings.TrimSpace(value), 0, 8)
		if err != nil {
			return fmt.Errorf("--reg %q: %w", reg, err)
		}
		c.Register[index] = uint8(v)
	}
	return nil
}

func dumpState(w io.Writer, c *cpu.Cpu, format string) error {
	switch format {
	case "table":
		_, err := io.WriteString(w, ui.Machine(c))
		return err
	case "yaml":
		return rom.Snapshot(c).Encode(w)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("--dump %q: expected table, yaml, or none", format)
	}
}

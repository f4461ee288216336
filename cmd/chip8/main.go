// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "chip8",
		Short:         "CHIP-8 style interpreter",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	root.AddCommand(runCmd(&verbose))
	root.AddCommand(addCmd(&verbose))

	return root
}

func main() {
	log.SetFlags(0)

	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("chip8: %v", err)
	}
}

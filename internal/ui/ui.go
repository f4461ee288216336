// Package ui renders machine state for the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ezrec/chip8/cpu"
)

// Palette
var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")
)

var (
	AccentStyle  = lipgloss.NewStyle().Foreground(purple)
	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	LabelStyle   = lipgloss.NewStyle().Foreground(dim)
)

func SuccessMsg(format string, a ...any) string {
	return SuccessStyle.Render("✓") + " " + fmt.Sprintf(format, a...)
}

func ErrorMsg(format string, a ...any) string {
	return ErrorStyle.Render("✗") + " " + fmt.Sprintf(format, a...)
}

// Pair holds a key-value pair for KeyValues output.
type Pair struct {
	key   string
	value string
}

// KV creates a key-value pair.
func KV(key, value string) Pair {
	return Pair{key: key, value: value}
}

// KeyValues renders aligned "key:  value" lines, with a trailing newline.
func KeyValues(indent string, pairs ...Pair) string {
	maxLen := 0
	for _, p := range pairs {
		if len(p.key) > maxLen {
			maxLen = len(p.key)
		}
	}

	var sb strings.Builder
	for _, p := range pairs {
		label := fmt.Sprintf("%-*s", maxLen+1, p.key+":")
		sb.WriteString(indent + LabelStyle.Render(label) + " " + p.value + "\n")
	}
	return sb.String()
}

// Table renders a styled table with rounded borders.
func Table(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(purple).
		Bold(true).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	oddStyle := cellStyle.Foreground(dim)
	evenStyle := cellStyle

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenStyle
			default:
				return oddStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}

// Machine renders the program counter, stack, and register file of c.
func Machine(c *cpu.Cpu) string {
	stack := "empty"
	if depth := c.Stack.Depth(); depth > 0 {
		addrs := make([]string, depth)
		for n := range depth {
			addrs[n] = fmt.Sprintf("%03X", c.Stack.Data[n])
		}
		stack = strings.Join(addrs, " ")
	}

	var sb strings.Builder
	sb.WriteString(KeyValues("",
		KV("pc", AccentStyle.Render(fmt.Sprintf("%03X", c.Pc))),
		KV("stack", stack),
		KV("ticks", fmt.Sprintf("%d", c.Ticks)),
	))

	rows := make([][]string, 0, len(c.Register))
	for n, value := range c.Register {
		name := fmt.Sprintf("v%X", n)
		if n == cpu.REGISTER_FLAG {
			name += " (carry)"
		}
		rows = append(rows, []string{name, fmt.Sprintf("%02X", value), fmt.Sprintf("%d", value)})
	}
	sb.WriteString(Table([]string{"register", "hex", "dec"}, rows))
	sb.WriteString("\n")

	return sb.String()
}

package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	stylesEnabled = term.IsTerminal(int(os.Stdout.Fd()))

	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

func renderPassFail(ok bool, label string) string {
	mark := "✓"
	style := passStyle
	if !ok {
		mark = "✗"
		style = failStyle
	}
	line := mark + " " + label
	if !stylesEnabled {
		return line
	}
	return style.Render(line)
}

func renderDim(s string) string {
	if !stylesEnabled {
		return s
	}
	return dimStyle.Render(s)
}

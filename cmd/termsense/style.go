package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/termsense/terminal"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleName   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleError  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// row pads cells to widths, measuring styled text by visible width
func row(widths []int, cells ...string) string {
	var b strings.Builder
	for i, cell := range cells {
		b.WriteString(cell)
		if i < len(widths) {
			if pad := widths[i] - lipgloss.Width(cell); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if i < len(cells)-1 {
			b.WriteString("  ")
		}
	}
	return b.String()
}

// describe renders an event with its raw bytes and tcell name when there is one
func describe(ev terminal.Event) string {
	cells := []string{styleName.Render(ev.String())}
	if tk := terminal.TcellKey(ev); tk != nil {
		cells = append(cells, styleDim.Render("tcell:"+tk.Name()))
	} else {
		cells = append(cells, "")
	}
	cells = append(cells, styleDim.Render(fmt.Sprintf("%q", ev.Raw)))
	return row([]int{28, 24}, cells...)
}

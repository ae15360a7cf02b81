package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/dtreekit/dtree"
)

var (
	// Color palette
	primaryColor   = lipgloss.Color("#7D56F4")
	secondaryColor = lipgloss.Color("#00D7FF")
	mutedColor     = lipgloss.Color("#666666")

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	rangeStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	compatStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// render applies style unless colors are disabled.
func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// formatDevice renders one list line: "name at 0xBASE..0xHIGH [compat, ...]".
func formatDevice(d *dtree.Device) string {
	var b strings.Builder
	b.WriteString(render(nameStyle, d.Name()))
	b.WriteString(" at ")
	b.WriteString(render(rangeStyle, fmt.Sprintf("0x%X..0x%X", d.Base(), d.High())))
	if compat := d.Compat(); len(compat) > 0 {
		b.WriteString(" ")
		b.WriteString(render(compatStyle, "["+strings.Join(compat, ", ")+"]"))
	}
	return b.String()
}

// deviceJSON is the JSON form of a device.
type deviceJSON struct {
	Name    string   `json:"name"`
	Base    string   `json:"base"`
	High    string   `json:"high"`
	Bounded bool     `json:"bounded"`
	Compat  []string `json:"compatible"`
	Path    string   `json:"path"`
}

func toJSON(d *dtree.Device) deviceJSON {
	compat := d.Compat()
	if compat == nil {
		compat = []string{}
	}
	return deviceJSON{
		Name:    d.Name(),
		Base:    fmt.Sprintf("0x%08X", d.Base()),
		High:    fmt.Sprintf("0x%08X", d.High()),
		Bounded: d.Bounded(),
		Compat:  compat,
		Path:    d.Path(),
	}
}

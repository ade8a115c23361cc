package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is the lipgloss renderer bound to stdout.
// lipgloss v1.x auto-detects TrueColor but doesn't apply it without
// an explicit SetColorProfile call on some terminals.
var Renderer = newRenderer()

func newRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// Predefined styles for consistent CLI output.
var (
	Green = Renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	Cyan  = Renderer.NewStyle().Foreground(lipgloss.Color("14"))
	Red   = Renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	White = Renderer.NewStyle().Foreground(lipgloss.Color("15"))
	Dim   = Renderer.NewStyle().Foreground(lipgloss.Color("245"))
)

// Status renders a one-line outcome with a check or cross mark.
func Status(ok bool, msg string) string {
	if ok {
		return Green.Render("✓") + " " + White.Render(msg)
	}
	return Red.Render("✗") + " " + msg
}

// Field renders an aligned "label: value" line, dimming unset values.
func Field(label, value string) string {
	if value == "" {
		return Cyan.Render(label) + Dim.Render("(not set)")
	}
	return Cyan.Render(label) + White.Render(value)
}

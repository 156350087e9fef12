package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// stylingEnabled reports whether stdout is a color-capable terminal
func stylingEnabled() bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// Success colors text green on capable terminals
func Success(text string) string {
	if !stylingEnabled() {
		return text
	}
	return successStyle.Render(text)
}

// Failure colors text red on capable terminals
func Failure(text string) string {
	if !stylingEnabled() {
		return text
	}
	return failureStyle.Render(text)
}

// Version highlights a version string
func Version(text string) string {
	if !stylingEnabled() {
		return text
	}
	return versionStyle.Render(text)
}

// Dim makes text dim/gray, used for changelog blocks
func Dim(text string) string {
	if !stylingEnabled() {
		return text
	}
	return dimStyle.Render(text)
}

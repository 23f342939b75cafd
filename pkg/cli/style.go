package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the color scheme of terminal output.
type Theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
	Warn    lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme is green on the terminal's background.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Warn:    lipgloss.Color("#f0b429"),
	Error:   lipgloss.Color("#ff5f5f"),
}

// Styles holds the styles derived from a theme.
type Styles struct {
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Border  lipgloss.Style
	Success lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles derives styles from t.
func NewStyles(t Theme) Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Cell:    lipgloss.NewStyle().Padding(0, 1),
		Border:  lipgloss.NewStyle().Foreground(t.Dim),
		Success: lipgloss.NewStyle().Foreground(t.Primary),
		Info:    lipgloss.NewStyle().Foreground(t.Dim),
		Warning: lipgloss.NewStyle().Foreground(t.Warn),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// DefaultStyles are the styles of DefaultTheme.
var DefaultStyles = NewStyles(DefaultTheme)

// PrintSuccess writes a success line with a check mark.
func PrintSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, DefaultStyles.Success.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintInfo writes an informational line.
func PrintInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, DefaultStyles.Info.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintWarning writes a warning line.
func PrintWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, DefaultStyles.Warning.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintError writes an error line.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, DefaultStyles.Error.Render("Error: "+fmt.Sprintf(format, args...)))
}

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type ConsoleStyle int

const (
	StyleNormal ConsoleStyle = iota
	StyleError
	StyleWarning
	StyleSuccess
	StyleInfo
)

var styles = map[ConsoleStyle]lipgloss.Style{
	StyleError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	StyleWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	StyleSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	StyleInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
}

type Console struct {
	out       io.Writer
	errOut    io.Writer
	useColors bool
}

func NewConsole() *Console {
	return &Console{
		out:       os.Stdout,
		errOut:    os.Stderr,
		useColors: isTerminal(),
	}
}

// NewConsoleWithWriters returns an uncoloured console writing to out and errOut.
func NewConsoleWithWriters(out, errOut io.Writer) *Console {
	return &Console{out: out, errOut: errOut}
}

func isTerminal() bool {
	stat, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (c *Console) formatMessage(style ConsoleStyle, message string) string {
	if !c.useColors {
		return message
	}

	s, ok := styles[style]
	if !ok {
		return message
	}
	return s.Render(message)
}

// Out is where regular output, such as tables and help, is written.
func (c *Console) Out() io.Writer {
	return c.out
}

func (c *Console) Println(message string) {
	fmt.Fprintln(c.out, message)
}

func (c *Console) PrintError(message string) {
	fmt.Fprintln(c.errOut, c.formatMessage(StyleError, "Error: "+message))
}

func (c *Console) PrintWarning(message string) {
	fmt.Fprintln(c.errOut, c.formatMessage(StyleWarning, "Warning: "+message))
}

func (c *Console) PrintSuccess(message string) {
	fmt.Fprintln(c.out, c.formatMessage(StyleSuccess, message))
}

func (c *Console) PrintInfo(message string) {
	fmt.Fprintln(c.out, c.formatMessage(StyleInfo, message))
}

func (c *Console) FormatErrorMessage(context, cause, suggestion string) string {
	var parts []string

	if context != "" {
		parts = append(parts, context)
	}

	if cause != "" {
		parts = append(parts, fmt.Sprintf("Cause: %s", cause))
	}

	if suggestion != "" {
		parts = append(parts, fmt.Sprintf("Suggestion: %s", suggestion))
	}

	return strings.Join(parts, "\n")
}

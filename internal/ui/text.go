package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor returns true if color output should be disabled.
func noColor() bool {
	// https://no-color.org/
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Semantic formatters for different types of CLI output.
var (
	// Code formats runnable commands. Yellow with color, `backticks` without.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file or directory paths.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag formats CLI flags like --force-continue.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Success formats success indicators and messages.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error formats error indicators and messages.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning formats warning indicators and messages.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info formats hints and directional indicators.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight formats user values like emails and key IDs.
	// Cyan with color, 'single quotes' without.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted formats secondary text. Gray with color, (parentheses) without.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}

	// Added and Removed format diff hunks. Without color the line markers
	// already carry the meaning.
	Added   = Formatter{color.New(color.FgGreen), "", ""}
	Removed = Formatter{color.New(color.FgRed), "", ""}
)

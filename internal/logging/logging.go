package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger writes leveled messages. The zero value only prints warnings and
// errors.
type Logger struct {
	Verbose bool
	Debug   bool

	// Out and Err default to os.Stdout and os.Stderr when nil.
	Out io.Writer
	Err io.Writer
}

// Infof prints when verbose or debug output is enabled.
func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		fmt.Fprintf(l.out(), color.GreenString("[info] ")+msg+"\n", args...)
	}
}

// Debugf prints only with debug output enabled.
func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		fmt.Fprintf(l.out(), color.CyanString("[debug] ")+msg+"\n", args...)
	}
}

// Warnf always prints, to Err.
func (l Logger) Warnf(msg string, args ...any) {
	fmt.Fprintf(l.err(), color.YellowString("[warn] ")+msg+"\n", args...)
}

// Errorf always prints, to Err.
func (l Logger) Errorf(msg string, args ...any) {
	fmt.Fprintf(l.err(), color.RedString("[error] ")+msg+"\n", args...)
}

func (l Logger) out() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stdout
}

func (l Logger) err() io.Writer {
	if l.Err != nil {
		return l.Err
	}
	return os.Stderr
}

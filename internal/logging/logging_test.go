package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerVerbosity(t *testing.T) {
	t.Run("QuietHidesInfoAndDebug", func(t *testing.T) {
		var out, errOut bytes.Buffer
		l := Logger{Out: &out, Err: &errOut}

		l.Infof("info %d", 1)
		l.Debugf("debug %d", 2)

		if out.Len() != 0 {
			t.Errorf("Expected no output in quiet mode, got: %q", out.String())
		}
	})

	t.Run("VerboseShowsInfoOnly", func(t *testing.T) {
		var out bytes.Buffer
		l := Logger{Verbose: true, Out: &out}

		l.Infof("hello %s", "world")
		l.Debugf("hidden")

		if !strings.Contains(out.String(), "hello world") {
			t.Errorf("Expected info message, got: %q", out.String())
		}
		if strings.Contains(out.String(), "hidden") {
			t.Errorf("Debug message should not be shown in verbose mode: %q", out.String())
		}
	})

	t.Run("DebugImpliesInfo", func(t *testing.T) {
		var out bytes.Buffer
		l := Logger{Debug: true, Out: &out}

		l.Infof("info")
		l.Debugf("debug")

		if !strings.Contains(out.String(), "info") || !strings.Contains(out.String(), "debug") {
			t.Errorf("Expected both messages in debug mode, got: %q", out.String())
		}
	})

	t.Run("WarningsAlwaysGoToErrorStream", func(t *testing.T) {
		var out, errOut bytes.Buffer
		l := Logger{Out: &out, Err: &errOut}

		l.Warnf("careful")

		if out.Len() != 0 {
			t.Errorf("Warning leaked to stdout: %q", out.String())
		}
		if !strings.Contains(errOut.String(), "[warn]") || !strings.Contains(errOut.String(), "careful") {
			t.Errorf("Expected warning on error stream, got: %q", errOut.String())
		}
	})
}

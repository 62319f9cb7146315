// Package logger provides leveled output for git-secret commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags and the SECRETS_VERBOSE environment variable. Output is formatted
// with semantic prefixes and colors.
//
// # Verbosity Levels
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()    // Shown with --verbose or --debug
//	Logger.Debugf()   // Shown only with --debug
//	Logger.Warnf()    // Always shown, on the error stream
//	Logger.Errorf()   // Always shown, on the error stream
//
// # Usage
//
// A Logger is a plain value. Commands build one from their flags and pass
// it to every workflow, so no verbosity state is shared between runs:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Processing %d files", count)
package logger

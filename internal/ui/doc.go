// Package ui provides semantic text formatting for CLI output.
//
// Formatters render content by type (commands, paths, outcomes). When
// colors are available, content is colorized. When NO_COLOR is set or the
// terminal doesn't support colors, text decorations are used instead.
//
//	ui.Code.Sprint("git secret hide")       // Commands and code
//	ui.Path.Sprint("config/db.yml.secret") // File paths
//	ui.Success.Sprint("✓")                  // Success indicators
//	ui.Error.Sprint("✗")                    // Error indicators
//	ui.Highlight.Sprint("alice@example.com") // User values
//
// Colors are disabled when NO_COLOR is set (any value) or when fatih/color
// detects a terminal without color support.
package ui

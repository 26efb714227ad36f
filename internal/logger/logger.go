// Package logger provides leveled console logging for sanctrack.
//
// Debug, Info and Warn messages are only printed when verbose mode is
// enabled via the --verbose flag. Error messages are always printed unless
// the logger has been silenced. All output goes to stderr so it never mixes
// with rendered reports on stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is the severity of a log line.
type Level int

// Log levels in increasing severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the tag printed in front of a message.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "LOG"
	}
}

var (
	mu      sync.RWMutex
	verbose bool
	silent  bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetSilent suppresses every message, errors included.
// Used by the MCP server where stderr may be captured by the client.
func SetSilent(s bool) {
	mu.Lock()
	defer mu.Unlock()
	silent = s
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Enabled reports whether a message at the given level would be printed.
func Enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled(l)
}

func enabled(l Level) bool {
	if silent {
		return false
	}
	return verbose || l >= LevelError
}

func logf(l Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled(l) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(output, "[%s] %s\n", l, strings.TrimRight(msg, "\n"))
}

// Debug prints pipeline detail such as store keys and entry counts.
func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }

// Info prints run milestones.
func Info(format string, args ...any) { logf(LevelInfo, format, args...) }

// Warn prints recoverable problems, e.g. a failed history write.
func Warn(format string, args ...any) { logf(LevelWarn, format, args...) }

// Error prints failures. Shown even without --verbose.
func Error(format string, args ...any) { logf(LevelError, format, args...) }

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if enabled(LevelDebug) {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

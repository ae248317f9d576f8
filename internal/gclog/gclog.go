// Package gclog is the pipeline's small leveled logger: a package
// global writer, toggled at runtime, used instead of ad hoc
// fmt.Println calls across the scanner, resync and splitter packages.
package gclog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	// Verbose enables Info-level output; Warn/Error always print.
	Verbose = os.Getenv("GRIDCTL_VERBOSE") != ""
)

// SetOutput redirects log output, primarily for tests. Passing nil
// discards all output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		output = io.Discard
		return
	}
	output = w
}

func write(level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, "%s [%s] %s\n", time.Now().Format(time.RFC3339), level, fmt.Sprintf(format, args...))
}

// Info logs a diagnostic message, only emitted when Verbose is set.
func Info(format string, args ...any) {
	if !Verbose {
		return
	}
	write("INFO", format, args...)
}

// Warn logs a recoverable condition, per spec §7 ("WARN for recoverable
// states").
func Warn(format string, args ...any) {
	write("WARN", format, args...)
}

// Error logs an aborted pass, per spec §7 ("ERROR for aborted passes").
func Error(format string, args ...any) {
	write("ERROR", format, args...)
}

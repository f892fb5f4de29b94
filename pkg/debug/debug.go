// Package debug provides conditional debug logging for beadpanel.
//
// Debug logging is enabled by setting the BDP_DEBUG environment variable:
//
//	BDP_DEBUG=1 bdp --robot-list
//
// When enabled, messages go to stderr with timestamps. When disabled
// (default), Log is a no-op.
package debug

import (
	"log"
	"os"
)

var logger *log.Logger

func init() {
	if os.Getenv("BDP_DEBUG") != "" {
		logger = log.New(os.Stderr, "[BDP_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Log writes a printf-style debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}

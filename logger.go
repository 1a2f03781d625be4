package sectorfx

import (
	"io"
	"log"
)

var logger *log.Logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger sets the destination for load progress and runtime diagnostics.
// Diagnostics are discarded until a logger is set.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", log.LstdFlags)
	}
	logger = l
}

// warnf reports a recoverable map or special problem. Nothing is aborted
// beyond the current behaviour.
func warnf(format string, v ...any) {
	logger.Printf("WARNING: "+format, v...)
}

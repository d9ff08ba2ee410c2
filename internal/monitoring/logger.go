// Package monitoring holds the process-wide diagnostic loggers.
//
// Routine engine chatter (filter drops, discarded buffers) goes through
// Debugf so it can be muted in production and captured in tests; operator
// facing events go through Logf.
package monitoring

import "log"

// Logf is the package-level operational logger. It defaults to log.Printf
// but may be replaced via SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf carries diagnostic-level output. Disabled by default; EnableDebug
// routes it to Logf.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces the operational logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// EnableDebug turns diagnostic logging on or off.
func EnableDebug(on bool) {
	if on {
		Debugf = func(format string, v ...interface{}) { Logf(format, v...) }
		return
	}
	Debugf = func(string, ...interface{}) {}
}

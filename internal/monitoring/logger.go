package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

var debugEnabled bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebug toggles Debugf output.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// DebugEnabled reports whether Debugf currently emits anything.
func DebugEnabled() bool {
	return debugEnabled
}

// Warnf logs a message at warning severity.
func Warnf(format string, v ...interface{}) {
	Logf("WARNING: "+format, v...)
}

// Debugf logs a message at debug severity. Nothing is emitted unless debug
// output was enabled with SetDebug.
func Debugf(format string, v ...interface{}) {
	if !debugEnabled {
		return
	}
	Logf("DEBUG: "+format, v...)
}

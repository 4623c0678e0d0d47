package actor

import "fmt"

// Logger is a minimal logging seam so this package never forces a
// concrete logging backend on an embedder. By default, log output is
// discarded. Set one with SetLogger; a log/slog, zap, or zerolog
// adapter all satisfy this trivially.
type Logger interface {
	Println(v ...interface{})
}

var pkgLogger Logger

// SetLogger installs the Logger used for internal diagnostics (Behavior
// panics recovered by a worker, ACB reclamation at teardown). Passing
// nil discards all output again.
func SetLogger(l Logger) {
	pkgLogger = l
}

func logf(format string, args ...interface{}) {
	if pkgLogger == nil {
		return
	}
	if len(args) == 0 {
		pkgLogger.Println(format)
		return
	}
	pkgLogger.Println(fmt.Sprintf(format, args...))
}

// Package log is the leveled debug logger shared by the server, the
// orchestrator and the plugins. Output goes to stderr unless redirected.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level controls how much diagnostic output is produced.
type Level int

const (
	Off Level = iota
	Basic
	Detailed
	Trace
	Wire
)

var (
	mu     sync.RWMutex
	level  = Off
	output io.Writer = os.Stderr
)

// LevelFromInt clamps an integer (typically from --debug) into a Level.
func LevelFromInt(i int) Level {
	switch {
	case i <= 0:
		return Off
	case i >= int(Wire):
		return Wire
	default:
		return Level(i)
	}
}

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Basic:
		return "basic"
	case Detailed:
		return "detailed"
	case Trace:
		return "trace"
	case Wire:
		return "wire"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// SetLevel sets the global debug level.
func SetLevel(l Level) {
	mu.Lock()
	level = l
	mu.Unlock()
}

// GetLevel returns the current debug level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// Enabled reports whether messages at l would be written.
func Enabled(l Level) bool {
	return l != Off && GetLevel() >= l
}

// SetOutput redirects all log output. Mainly used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// Debug writes a formatted message when the current level is at least l.
func Debug(l Level, format string, a ...interface{}) {
	if !Enabled(l) {
		return
	}
	mu.RLock()
	w := output
	mu.RUnlock()
	fmt.Fprintf(w, "DEBUG: "+format, a...)
}

// Log writes a formatted message regardless of level.
func Log(format string, a ...interface{}) {
	mu.RLock()
	w := output
	mu.RUnlock()
	fmt.Fprintf(w, format, a...)
}

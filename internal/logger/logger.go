// Package logger provides namespaced debug logging controlled by the DEBUG
// environment variable, following the npm debug package conventions:
//
//	DEBUG=*                enables all loggers
//	DEBUG=validate:*       enables a namespace subtree
//	DEBUG=a,b              enables specific namespaces
//	DEBUG=*,-discovery     enables everything except a pattern
//
// Output goes to stderr and never mixes with the report or JSON contract.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

var debugEnv = os.Getenv("DEBUG")

// Logger is a debug logger for one namespace. The enabled state is fixed at
// construction.
type Logger struct {
	namespace string
	enabled   bool

	mu      sync.Mutex
	lastLog time.Time
}

// New creates a Logger for the given namespace.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   enabledFor(namespace, debugEnv),
		lastLog:   time.Now(),
	}
}

// Enabled reports whether this logger emits output.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf logs a formatted message with the elapsed time since the previous
// message, like the debug npm package.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.mu.Lock()
	now := time.Now()
	diff := now.Sub(l.lastLog)
	l.lastLog = now
	l.mu.Unlock()

	fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, fmt.Sprintf(format, args...), formatElapsed(diff))
}

// Print logs a plain message.
func (l *Logger) Print(args ...any) {
	l.Printf("%s", fmt.Sprint(args...))
}

func formatElapsed(d time.Duration) string {
	if d < time.Millisecond {
		return "0ms"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}

func enabledFor(namespace, spec string) bool {
	enabled := false
	for _, pattern := range strings.Split(spec, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if exclude, ok := strings.CutPrefix(pattern, "-"); ok {
			if matchPattern(namespace, exclude) {
				return false
			}
			continue
		}
		if matchPattern(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

func matchPattern(namespace, pattern string) bool {
	if pattern == "*" || pattern == namespace {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(namespace, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(namespace, suffix)
	}
	return false
}

package apirequest

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Logger is the minimal structured logging interface the hook emits to.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SimpleLogger writes leveled key=value lines to stderr via the standard
// library logger. Intended for examples and debugging, not production sinks.
type SimpleLogger struct {
	l *log.Logger
}

// NewSimpleLogger creates a SimpleLogger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{l: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)}
}

func (s *SimpleLogger) Debug(msg string, keysAndValues ...interface{}) {
	s.print("DEBUG", msg, keysAndValues)
}

func (s *SimpleLogger) Info(msg string, keysAndValues ...interface{}) {
	s.print("INFO", msg, keysAndValues)
}

func (s *SimpleLogger) Warn(msg string, keysAndValues ...interface{}) {
	s.print("WARN", msg, keysAndValues)
}

func (s *SimpleLogger) Error(msg string, keysAndValues ...interface{}) {
	s.print("ERROR", msg, keysAndValues)
}

func (s *SimpleLogger) print(level, msg string, keysAndValues []interface{}) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	if len(keysAndValues)%2 == 1 {
		fmt.Fprintf(&b, " %v=<missing>", keysAndValues[len(keysAndValues)-1])
	}
	s.l.Print(b.String())
}

// DebugConfig controls which lifecycle events are logged when debugging is
// enabled. All switches are independent so noisy concerns can stay quiet.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogStale     bool
	LogCallbacks bool
	RequestIDGen func() string
}

// DefaultDebugConfig returns a disabled config with request and stale
// logging pre-selected and a monotonic request ID generator.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogStale:     true,
		LogCallbacks: false,
		RequestIDGen: defaultRequestIDGen,
	}
}

var requestIDCounter uint64

func defaultRequestIDGen() string {
	id := atomic.AddUint64(&requestIDCounter, 1)
	return fmt.Sprintf("req-%d-%d", time.Now().UnixMilli(), id)
}

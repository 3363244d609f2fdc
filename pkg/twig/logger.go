package twig

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogOff
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	case LogOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

var levelColors = map[LogLevel]*color.Color{
	LogDebug: color.New(color.FgCyan),
	LogInfo:  color.New(color.FgGreen),
	LogWarn:  color.New(color.FgYellow),
	LogError: color.New(color.FgRed, color.Bold),
}

type Fields map[string]interface{}

// Logger is the optional tracing collaborator of the compiler and renderer.
// A nil *Logger is valid and discards everything.
type Logger struct {
	writer   io.Writer
	level    LogLevel
	fields   Fields
	colorize bool
	mu       *sync.Mutex
}

func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LogDebug
	case "info":
		return LogInfo
	case "warn":
		return LogWarn
	case "error":
		return LogError
	case "off":
		return LogOff
	default:
		return LogInfo
	}
}

// NewLogger creates a logger writing lines at or above level to w.
// Level tags are colored only when w is the process's terminal.
func NewLogger(w io.Writer, level LogLevel) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		writer:   w,
		level:    level,
		fields:   make(Fields),
		colorize: (w == os.Stderr || w == os.Stdout) && !color.NoColor,
		mu:       new(sync.Mutex),
	}
}

// NewLoggerFromConfig creates a stderr logger at the config's level.
func NewLoggerFromConfig(config *Config) *Logger {
	return NewLogger(os.Stderr, parseLogLevel(config.LogLevel))
}

func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) IsDebugMode() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level == LogDebug
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

func (l *Logger) WithFields(fields Fields) *Logger {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	level := l.level
	l.mu.Unlock()

	newLogger := &Logger{
		writer:   l.writer,
		level:    level,
		fields:   make(Fields, len(l.fields)+len(fields)),
		colorize: l.colorize,
		mu:       l.mu,
	}
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)

	tag := "[" + level.String() + "]"
	if c, ok := levelColors[level]; ok && l.colorize {
		tag = c.Sprint(tag)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", timestamp, tag, message)

	// Sorted so repeated runs produce comparable lines
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
		}
	}

	fmt.Fprintln(l.writer, b.String())
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogDebug, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogWarn, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogError, format, args...)
}

// DebugExpression traces the result of evaluating one expression.
func (l *Logger) DebugExpression(expr string, result interface{}) {
	if !l.IsDebugMode() {
		return
	}
	l.WithField("result", result).Debug("Expression: %s", expr)
}

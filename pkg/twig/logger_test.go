package twig

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		level          LogLevel
		setupFunc      func(*Logger)
		expectedOutput []string
		notExpected    []string
	}{
		{
			name:  "debug level shows all messages",
			level: LogDebug,
			setupFunc: func(l *Logger) {
				l.Debug("debug message")
				l.Info("info message")
				l.Warn("warn message")
				l.Error("error message")
			},
			expectedOutput: []string{
				"[DEBUG]", "debug message",
				"[INFO]", "info message",
				"[WARN]", "warn message",
				"[ERROR]", "error message",
			},
		},
		{
			name:  "info level hides debug messages",
			level: LogInfo,
			setupFunc: func(l *Logger) {
				l.Debug("debug message")
				l.Info("info message")
			},
			expectedOutput: []string{"[INFO]", "info message"},
			notExpected:    []string{"[DEBUG]", "debug message"},
		},
		{
			name:  "error level shows only errors",
			level: LogError,
			setupFunc: func(l *Logger) {
				l.Info("info message")
				l.Warn("warn message")
				l.Error("error message")
			},
			expectedOutput: []string{"[ERROR]", "error message"},
			notExpected:    []string{"[INFO]", "[WARN]"},
		},
		{
			name:  "off level shows nothing",
			level: LogOff,
			setupFunc: func(l *Logger) {
				l.Error("error message")
			},
			notExpected: []string{"error message"},
		},
		{
			name:  "fields are appended in key order",
			level: LogInfo,
			setupFunc: func(l *Logger) {
				l.WithFields(Fields{"b": 2, "a": 1}).Info("with fields")
			},
			expectedOutput: []string{"with fields a=1 b=2"},
		},
		{
			name:  "format arguments",
			level: LogInfo,
			setupFunc: func(l *Logger) {
				l.Info("compiled %d tokens", 3)
			},
			expectedOutput: []string{"compiled 3 tokens"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)
			tt.setupFunc(logger)

			output := buf.String()
			for _, expected := range tt.expectedOutput {
				if !strings.Contains(output, expected) {
					t.Errorf("Expected output to contain %q, got: %s", expected, output)
				}
			}
			for _, notExpected := range tt.notExpected {
				if strings.Contains(output, notExpected) {
					t.Errorf("Expected output NOT to contain %q, got: %s", notExpected, output)
				}
			}
		})
	}
}

func TestLoggerWithFieldDoesNotModifyParent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogInfo)

	logger.WithField("child", true).Info("first")
	logger.Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "child=true") {
		t.Errorf("first line %q lacks child field", lines[0])
	}
	if strings.Contains(lines[1], "child=true") {
		t.Errorf("second line %q has the child's field", lines[1])
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogError)

	if logger.IsDebugMode() {
		t.Error("IsDebugMode() = true at error level")
	}
	logger.SetLevel(LogDebug)
	if !logger.IsDebugMode() {
		t.Error("IsDebugMode() = false after SetLevel(LogDebug)")
	}

	logger.DebugExpression("2 3 +", 5.0)
	if !strings.Contains(buf.String(), "Expression: 2 3 +") || !strings.Contains(buf.String(), "result=5") {
		t.Errorf("DebugExpression output = %q", buf.String())
	}
}

func TestNilLogger(t *testing.T) {
	var logger *Logger

	// None of these may panic
	logger.Debug("x")
	logger.Info("x")
	logger.WithField("k", "v").Error("x")
	logger.SetLevel(LogDebug)
	logger.DebugExpression("x", 1)

	if logger.IsDebugMode() {
		t.Error("nil logger IsDebugMode() = true")
	}
}

func TestLoggerColorizeOnlyTerminals(t *testing.T) {
	var buf bytes.Buffer
	if NewLogger(&buf, LogInfo).colorize {
		t.Error("logger writing to a buffer colorizes")
	}
	if NewLogger(nil, LogInfo).writer == nil {
		t.Error("NewLogger(nil) has no writer")
	}

	logger := NewLoggerFromConfig(&Config{LogLevel: "warn"})
	if logger.writer != os.Stderr || logger.level != LogWarn {
		t.Errorf("NewLoggerFromConfig() = %v/%s, want stderr/WARN", logger.writer, logger.level)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogDebug},
		{"INFO", LogInfo},
		{"warn", LogWarn},
		{"error", LogError},
		{"off", LogOff},
		{"unknown", LogInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCompileLogsWithDebugLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogDebug)

	tmpl, err := Compile("{{ 2 + 3 }}", WithLogger(logger))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := tmpl.Render(nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"Starting template scan", "Compiled expression", "rpn=2 3 +", "Template compiled", "Expression: 2 + 3"} {
		if !strings.Contains(output, want) {
			t.Errorf("debug output lacks %q:\n%s", want, output)
		}
	}
}

package app

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func fixedClock() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

func newBufferLogger(level LogLevel, prefix string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Level: level, Output: &buf, Prefix: prefix})
	l.sink.now = fixedClock
	return l, &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"Warning", LogLevelWarn},
		{"ERROR", LogLevelError},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  []string
	}{
		{LogLevelDebug, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{LogLevelWarn, []string{"WARN", "ERROR"}},
		{LogLevelError, []string{"ERROR"}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			l, buf := newBufferLogger(tt.level, "")
			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(tt.want), buf.String())
			}
			for i, lvl := range tt.want {
				if !strings.Contains(lines[i], "["+lvl+"]") {
					t.Errorf("line %d = %q, want level %s", i, lines[i], lvl)
				}
			}
		})
	}
}

func TestLogger_LineFormat(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		log    func(*Logger)
		want   string
	}{
		{"plain", "", func(l *Logger) { l.Info("attached") },
			"2024-01-02T03:04:05.000 [INFO] attached\n"},
		{"printf args", "nwin", func(l *Logger) { l.Warn("grid %d: %s", 2, "gone") },
			"2024-01-02T03:04:05.000 [WARN] nwin: grid 2: gone\n"},
		{"fields sorted", "", func(l *Logger) {
			l.WithFields(map[string]any{"grid": 2, "component": "compositor"}).Debug("opened")
		}, "2024-01-02T03:04:05.000 [DEBUG] opened {component=compositor, grid=2}\n"},
		{"percent without args", "", func(l *Logger) { l.Info("100%") },
			"2024-01-02T03:04:05.000 [INFO] 100%\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferLogger(LogLevelDebug, tt.prefix)
			tt.log(l)
			if buf.String() != tt.want {
				t.Errorf("line = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

// Component loggers handed to the compositor, reconciler and editor
// connection must follow level changes made by config reloads on the root.
func TestLogger_DerivedShareSink(t *testing.T) {
	root, buf := newBufferLogger(LogLevelInfo, "")
	child := root.WithComponent("wm")

	child.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at INFO: %q", buf.String())
	}

	root.SetLevel(LogLevelDebug)
	child.Debug("shown")
	if !strings.Contains(buf.String(), "shown {component=wm}") {
		t.Errorf("child did not follow root level: %q", buf.String())
	}
	if child.Level() != LogLevelDebug {
		t.Errorf("child.Level() = %v, want DEBUG", child.Level())
	}

	var other bytes.Buffer
	child.SetOutput(&other)
	root.Info("moved")
	if !strings.Contains(other.String(), "moved") {
		t.Error("root did not follow output set on child")
	}

	child.Disable()
	root.Error("muted")
	if strings.Contains(other.String(), "muted") {
		t.Error("root logged after child disabled the sink")
	}
	root.Enable()
	child.Error("back")
	if !strings.Contains(other.String(), "back") {
		t.Error("child silent after root re-enabled the sink")
	}
}

func TestLogger_FieldsDoNotLeak(t *testing.T) {
	root, buf := newBufferLogger(LogLevelInfo, "")
	_ = root.WithField("grid", 4)
	root.WithComponent("editor").WithField("grid", 7).Info("a")
	root.Info("b")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if !strings.HasSuffix(lines[0], "a {component=editor, grid=7}") {
		t.Errorf("derived line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "[INFO] b") {
		t.Errorf("root line = %q, want no fields", lines[1])
	}
}

func TestNewSessionLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSessionLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})
	logger.WithComponent("app").Info("hello")

	_, rest, ok := strings.Cut(buf.String(), "session=")
	if !ok {
		t.Fatalf("no session field in %q", buf.String())
	}
	id := strings.TrimSuffix(strings.TrimSpace(rest), "}")
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("session %q is not a UUID: %v", id, err)
	}

	other := NewSessionLogger(LoggerConfig{Output: &buf})
	if other.fields["session"] == logger.fields["session"] {
		t.Error("two sessions share an id")
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.WithComponent("compositor").Error("dropped %d", 1)
	if !NullLogger.sink.disabled {
		t.Error("NullLogger is enabled")
	}
}

func TestLogger_ConcurrentLinesStayWhole(t *testing.T) {
	root, buf := newBufferLogger(LogLevelInfo, "")
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(l *Logger) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Info("frame %d", j)
			}
		}(root.WithField("worker", i))
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 200 {
		t.Fatalf("got %d lines, want 200", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "2024-01-02T03:04:05.000 [INFO] frame ") {
			t.Fatalf("interleaved line %q", line)
		}
	}
}

package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/astviz/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Rendered 2 file(s)")

	out := buf.String()
	if !strings.Contains(out, "Rendered 2 file(s)") {
		t.Errorf("progress output %q should contain the message", out)
	}
	if !strings.Contains(out, "s)") {
		t.Errorf("progress output %q should contain a duration", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	loggerFromContext(ctx).Info("attached")
	if buf.Len() == 0 {
		t.Error("attached logger should write to its buffer")
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogInfo)
	if _, ok := observability.Pipeline().(observability.LogHooks); ok {
		t.Fatal("info level should leave the pipeline hooks alone")
	}

	c.SetLogLevel(LogDebug)
	if _, ok := observability.Pipeline().(observability.LogHooks); !ok {
		t.Errorf("debug level pipeline hooks = %T, want LogHooks", observability.Pipeline())
	}
	if _, ok := observability.Cache().(observability.LogHooks); !ok {
		t.Errorf("debug level cache hooks = %T, want LogHooks", observability.Cache())
	}

	observability.Pipeline().OnProjectStart(context.Background(), "dot", 3)
	if !strings.Contains(buf.String(), "dot") {
		t.Errorf("hook output %q should mention the projection", buf.String())
	}
}

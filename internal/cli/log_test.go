package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/radialtree/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", LogInfo, func(l *log.Logger) { l.Info("loaded hierarchy") }, true},
		{"debug at info level", LogInfo, func(l *log.Logger) { l.Debug("cache hit") }, false},
		{"debug at debug level", LogDebug, func(l *log.Logger) { l.Debug("cache hit") }, true},
		{"warn at info level", LogInfo, func(l *log.Logger) { l.Warn("nodes unreachable") }, true},
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

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	prog.done("re-rendered", "files", 2, "placed", 14)

	out := buf.String()
	for _, want := range []string{"re-rendered", "files=2", "placed=14", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, LogInfo)

	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext() did not return the attached logger")
	}
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext() without a logger returned nil")
	}
}

func TestSetupAttachesCommandLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"default level", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			t.Cleanup(observability.Reset)
			var buf bytes.Buffer
			c := New(&buf, LogInfo)
			c.verbose = tt.verbose

			cmd := &cobra.Command{Use: "render"}
			cmd.SetContext(context.Background())
			if err := c.setup(cmd, nil); err != nil {
				t.Fatalf("setup() error: %v", err)
			}

			l := loggerFromContext(cmd.Context())
			l.Info("computed layout")
			if !strings.Contains(buf.String(), "cmd=render") {
				t.Errorf("context logger output %q lacks cmd=render", buf.String())
			}

			buf.Reset()
			l.Debug("cache miss")
			if got := buf.Len() > 0; got != tt.wantDebug {
				t.Errorf("debug output = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

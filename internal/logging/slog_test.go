package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// captureStdout swaps the console sink for a buffer until the test ends.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })
	return &buf
}

func TestSetup_Sinks(t *testing.T) {
	t.Run("file only", func(t *testing.T) {
		console := captureStdout(t)
		var file bytes.Buffer

		m := NewSlogManager()
		m.Setup(&file, "info", nil)
		m.Logger().Info("board ready")

		assert.Contains(t, file.String(), "board ready")
		assert.Contains(t, file.String(), "Logging initialized")
		assert.Empty(t, console.String())
	})

	t.Run("console fallback", func(t *testing.T) {
		console := captureStdout(t)

		m := NewSlogManager()
		m.Setup(nil, "info", nil)
		m.Logger().Info("board ready")

		assert.Contains(t, console.String(), "board ready")
	})
}

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"bogus", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(&buf, tt.level, nil)

			m.Logger().Debug("pointer trace")
			m.Logger().Error("stroke failed")

			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("pointer trace")))
			assert.Contains(t, buf.String(), "stroke failed")
		})
	}
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var first, second bytes.Buffer
	m := NewSlogManager()

	m.Setup(&first, "info", nil)
	m.Logger().Info("before")

	m.Setup(&second, "info", nil)
	m.Logger().Info("after")

	assert.Contains(t, first.String(), "before")
	assert.NotContains(t, first.String(), "after")
	assert.Contains(t, second.String(), "after")
}

func TestSetup_BoardContext(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.BoardContext = func() []slog.Attr {
		return BoardAttrs("draw", 22, 3, 1)
	}
	m.Setup(&buf, "info", nil)

	m.Logger().Info("FREEHAND PATH COMMITTED")

	out := buf.String()
	assert.Contains(t, out, "mode=draw")
	assert.Contains(t, out, "players=22")
	assert.Contains(t, out, "lines=3")
	assert.Contains(t, out, "zones=1")
}

func TestSetup_WithOTelProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()

	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", provider)
	m.Logger().Info("otel integrated")

	assert.Contains(t, buf.String(), "otel integrated")
	assert.NoError(t, m.Flush(context.Background()))
}

func TestAttachGraylog(t *testing.T) {
	m := NewSlogManager()
	require.NoError(t, m.AttachGraylog("127.0.0.1:12201"))

	var buf bytes.Buffer
	m.Setup(&buf, "info", nil)
	m.Logger().Info("shipped")

	assert.Contains(t, buf.String(), "shipped")
}

func TestAttachGraylog_BadAddress(t *testing.T) {
	m := NewSlogManager()
	assert.Error(t, m.AttachGraylog("not-an-address"))
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
	assert.NoError(t, m.Flush(context.Background()))
}

func TestWriteLog(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		t.Run(level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(&buf, "debug", nil)

			m.WriteLog("commitNode", level+" message", level)

			assert.Contains(t, buf.String(), level+" message")
			assert.Contains(t, buf.String(), "function=commitNode")
		})
	}

	t.Run("before setup", func(t *testing.T) {
		NewSlogManager().WriteLog("fn", "data", "info")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

type failingHandler struct {
	slog.Handler
}

func (h *failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func (h *failingHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func TestMultiHandler(t *testing.T) {
	t.Run("fans out and skips nil", func(t *testing.T) {
		var a, b bytes.Buffer
		multi := NewMultiHandler(nil, slog.NewTextHandler(&a, nil), slog.NewTextHandler(&b, nil))
		require.Len(t, multi.handlers, 2)

		slog.New(multi).Info("fanned out")
		assert.Contains(t, a.String(), "fanned out")
		assert.Contains(t, b.String(), "fanned out")
	})

	t.Run("failing sink does not block others", func(t *testing.T) {
		var buf bytes.Buffer
		multi := NewMultiHandler(&failingHandler{}, slog.NewTextHandler(&buf, nil))
		slog.New(multi).Info("still delivered")
		assert.Contains(t, buf.String(), "still delivered")
	})

	t.Run("enabled if any sink is", func(t *testing.T) {
		info := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
		debug := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

		assert.False(t, NewMultiHandler(info).Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, NewMultiHandler(info, debug).Enabled(context.Background(), slog.LevelDebug))
		assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
	})

	t.Run("attrs and groups", func(t *testing.T) {
		var buf bytes.Buffer
		multi := NewMultiHandler(slog.NewTextHandler(&buf, nil))

		slog.New(multi.WithAttrs([]slog.Attr{slog.String("component", "session")})).Info("a")
		slog.New(multi.WithGroup("node")).Info("b", "label", "LOGIC_NODE_1")

		assert.Contains(t, buf.String(), "component=session")
		assert.Contains(t, buf.String(), "node.label=LOGIC_NODE_1")
		assert.Equal(t, multi, multi.WithGroup(""))
	})
}

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), "", func() []slog.Attr {
		calls++
		return []slog.Attr{slog.Int("tick", calls)}
	})

	logger := slog.New(h).With("component", "controller")
	logger.Info("first")
	logger.Info("second")

	out := buf.String()
	assert.Contains(t, out, "tick=1")
	assert.Contains(t, out, "tick=2")
	assert.Contains(t, out, "component=controller")
	assert.Equal(t, h, h.WithGroup(""))
}

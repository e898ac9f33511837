package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level(true, true))
	assert.Equal(t, slog.LevelInfo, Level(false, true))
	assert.Equal(t, slog.LevelWarn, Level(false, false))
}

func TestPrettyHandler(t *testing.T) {
	t.Run("Success - renders badge, message and attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, false, true)

		l.Info("staged diff collected", "files", 3)

		assert.Equal(t, "[INFO]  staged diff collected files=3\n", buf.String())
	})

	t.Run("Success - filters records below the level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, false, false)

		l.Info("hidden")
		l.Debug("hidden too")

		assert.Empty(t, buf.String())
	})

	t.Run("Success - prefixes grouped attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, false, false).WithGroup("groq").With("model", "llama")

		l.Warn("slow response")

		assert.Contains(t, buf.String(), "groq.model=llama")
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, false, false))
	ctx = With(ctx, "command", "commit")

	Error(ctx, "completion failed", errors.New("timeout"))

	out := buf.String()
	assert.Contains(t, out, "[ERROR] completion failed")
	assert.Contains(t, out, "command=commit")
	assert.Contains(t, out, "error=timeout")
}

func TestFromContext_Default(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, slog.LevelDebug))
	ctx = WithAttrs(ctx, slog.String("component", "cache"), slog.Int("capacity", 2))
	ctx = WithAttrs(ctx, slog.Int("capacity", 3))

	Debug(ctx, "cache built", slog.String("addr", "localhost:11211"))

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, `msg="cache built"`)
	assert.Contains(t, out, "component=cache")
	assert.Contains(t, out, "capacity=3")
	assert.NotContains(t, out, "capacity=2")
	assert.Contains(t, out, "addr=localhost:11211")
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, slog.LevelWarn))

	Info(ctx, "hidden")
	Warn(ctx, "shown")
	Error(ctx, "also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "also shown")
}

func TestAttrsAreCopied(t *testing.T) {
	t.Parallel()

	ctx := WithAttrs(context.Background(), slog.String("a", "1"))

	attrs := Attrs(ctx)
	attrs[0] = slog.String("a", "changed")

	assert.Equal(t, "1", Attrs(ctx)[0].Value.String())
	assert.Nil(t, Attrs(context.Background()))
}

func TestWithLoggerNil(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Equal(t, ctx, WithLogger(ctx, nil))
	assert.NotNil(t, Logger(ctx))
}

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return slog.New(NewHandler(&buf, level)), &buf
}

func Test_Handler_Format(t *testing.T) {
	log, buf := newTestLogger(slog.LevelInfo)

	log.Info("Giveaway started",
		slog.String("giveaway_id", "123"),
		slog.Int("winners", 2),
		slog.Any("error", errors.New("missing access")))

	line := buf.String()
	require.True(t, strings.HasSuffix(line, "\n"))
	require.Contains(t, line, "INFO  Giveaway started")
	require.Contains(t, line, "giveaway_id=123")
	require.Contains(t, line, "winners=2")
	require.Contains(t, line, `error="missing access"`)
}

func Test_Handler_Level(t *testing.T) {
	log, buf := newTestLogger(slog.LevelWarn)

	log.Info("hidden")
	log.Debug("hidden")
	require.Empty(t, buf.String())

	log.Warn("shown")
	require.Contains(t, buf.String(), "WARN  shown")
}

func Test_Handler_AttrsAndGroups(t *testing.T) {
	log, buf := newTestLogger(slog.LevelDebug)

	log.With(slog.String("component", "counting")).
		WithGroup("msg").
		Debug("Count", slog.String("channel_id", "42"), slog.Group("next", slog.Int("n", 7)))

	line := buf.String()
	require.Contains(t, line, "DEBUG Count")
	require.Contains(t, line, "component=counting")
	require.Contains(t, line, "msg.channel_id=42")
	require.Contains(t, line, "msg.next.n=7")
}

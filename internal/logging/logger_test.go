package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf, JSON: true})
	require.NotNil(t, logger)

	t.Run("Levels", func(t *testing.T) {
		for _, fn := range []func(string, ...any){logger.Debug, logger.Info, logger.Warn, logger.Error} {
			buf.Reset()
			fn("level msg")
			assert.Contains(t, buf.String(), "level msg")
		}
	})

	t.Run("DynamicLevel", func(t *testing.T) {
		logger.SetLevel(LevelError)
		assert.Equal(t, LevelError, logger.GetLevel())

		buf.Reset()
		logger.Info("should not appear")
		assert.Zero(t, buf.Len())

		logger.SetLevel(LevelDebug)
	})

	t.Run("WithComponent", func(t *testing.T) {
		buf.Reset()
		logger.WithComponent("device").Info("msg")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "device", rec["component"])
	})

	t.Run("WithFields", func(t *testing.T) {
		buf.Reset()
		logger.WithFields(map[string]any{"iface": "eth7"}).Info("msg")
		assert.Contains(t, buf.String(), `"iface":"eth7"`)
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	logger.WithComponent("platform").Info("link added", "iface", "eth7", "kind", "dummy device")
	line := buf.String()

	assert.Contains(t, line, "[info] platform: link added")
	assert.Contains(t, line, "iface=eth7")
	assert.Contains(t, line, `kind="dummy device"`)
	assert.True(t, strings.HasSuffix(line, "\n"))

	buf.Reset()
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	last := Recent().Last(1, "platform")
	require.Len(t, last, 1)
	assert.Equal(t, "link added", last[0].Message)
	assert.Equal(t, "eth7", last[0].Extra["iface"])
}

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer(3)
	for _, msg := range []string{"a", "b", "c", "d"} {
		rb.Add(Entry{Message: msg, Source: "x"})
	}
	rb.Add(Entry{Message: "e", Source: "y"})

	assert.Equal(t, 3, rb.Count())

	all := rb.Last(0, "")
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Message)
	assert.Equal(t, "e", all[2].Message)

	onlyX := rb.Last(0, "x")
	require.Len(t, onlyX, 2)
	assert.Equal(t, "d", onlyX[1].Message)

	assert.Len(t, rb.Last(1, ""), 1)
}

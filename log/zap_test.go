// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLogger(t *testing.T) {
	buffer := new(bytes.Buffer)
	// a fake level value falls back to debug
	logger := NewZap(7, buffer)
	require.Equal(t, DebugLevel, logger.LogLevel())

	logger.Debug("test debug")
	flushLogger(t, logger)

	actual, err := extractMessage(buffer.Bytes())
	require.NoError(t, err)
	require.Equal(t, "test debug", actual)

	lvl, err := extractLevel(buffer.Bytes())
	require.NoError(t, err)
	require.Equal(t, DebugLevel.String(), lvl)
}

func TestLevels(t *testing.T) {
	testCases := []struct {
		name  string
		level Level
		log   func(Logger)
		msg   string
	}{
		{name: "debug", level: DebugLevel, log: func(l Logger) { l.Debugf("%s", "debug message") }, msg: "debug message"},
		{name: "info", level: InfoLevel, log: func(l Logger) { l.Info("info message") }, msg: "info message"},
		{name: "warn", level: WarningLevel, log: func(l Logger) { l.Warnf("warn %d", 1) }, msg: "warn 1"},
		{name: "error", level: ErrorLevel, log: func(l Logger) { l.Error("error message") }, msg: "error message"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buffer := new(bytes.Buffer)
			logger := NewZap(tc.level, buffer)
			require.Equal(t, tc.level, logger.LogLevel())

			tc.log(logger)
			flushLogger(t, logger)

			line := extractLogLine(buffer.Bytes())
			require.NotNil(t, line)
			msg, err := extractMessage(line)
			require.NoError(t, err)
			assert.Equal(t, tc.msg, msg)

			lvl, err := extractLevel(line)
			require.NoError(t, err)
			assert.Equal(t, tc.level.String(), lvl)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(ErrorLevel, buffer)
	logger.Info("ignored")
	logger.Warn("ignored")
	flushLogger(t, logger)
	assert.Empty(t, buffer.Bytes())

	assert.False(t, logger.Enabled(DebugLevel))
	assert.False(t, logger.Enabled(WarningLevel))
	assert.True(t, logger.Enabled(ErrorLevel))
	assert.True(t, logger.Enabled(PanicLevel))
}

func TestLogWith(t *testing.T) {
	t.Run("With adds structured fields to output", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("body", "node-1:7:1700000000", "runtime", "node-1").Info("body started")
		flushLogger(t, logger)

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "body")
		require.Contains(t, m, "runtime")
	})
	t.Run("With returns same logger when keyValues empty", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With())
	})
	t.Run("With odd keyValues uses _ for orphan", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("a", 1, "orphan").Info("msg")
		flushLogger(t, logger)
		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "a")
		require.Contains(t, m, "_")
	})
	t.Run("With all non-string keys returns same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With(1, 2, 3, 4))
	})
	t.Run("With typed fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		sub := logger.With(
			"s", "str",
			"i", 42,
			"i32", int32(32),
			"i64", int64(64),
			"u", uint(10),
			"u32", uint32(32),
			"u64", uint64(64),
			"b", true,
			"f", 3.14,
			"any", []int{1, 2},
		)
		sub.Info("typed fields")
		flushLogger(t, sub.(*Zap))
		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		for _, key := range []string{"s", "i", "i32", "i64", "u", "u32", "u64", "b", "f", "any"} {
			require.Contains(t, m, key)
		}
	})
}

func TestLogOutput(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(InfoLevel, buffer)
	outputs := logger.LogOutput()
	require.Len(t, outputs, 1)
	require.IsType(t, buffer, outputs[0])
}

func TestLogLevelInvalid(t *testing.T) {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:  "msg",
		LevelKey:    "level",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(io.Discard),
		zapcore.DPanicLevel,
	)
	logger := &Zap{logger: zap.New(core)}
	require.Equal(t, InvalidLevel, logger.LogLevel())
	require.Equal(t, "invalid", InvalidLevel.String())
}

func TestPanic(t *testing.T) {
	logger := NewZap(PanicLevel, new(bytes.Buffer))
	require.Equal(t, PanicLevel, logger.LogLevel())
	assert.Panics(t, func() {
		logger.Panic("test panic")
	})
	assert.Panics(t, func() {
		logger.Panicf("%s", "test panic")
	})
}

func TestFlushFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bodies.log")
	file, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	logger := NewZap(InfoLevel, file)
	logger.Info("buffered entry")
	require.NoError(t, logger.Flush())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	msg, err := extractMessage(extractLogLine(content))
	require.NoError(t, err)
	assert.Equal(t, "buffered entry", msg)
}

func TestStdLogger(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(InfoLevel, buffer)

	std := logger.StdLogger()
	std.Print("std logger message")
	flushLogger(t, logger)

	msg, err := extractMessage(buffer.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "std logger message", msg)
}

func flushLogger(t *testing.T, logger *Zap) {
	t.Helper()
	require.NoError(t, logger.logger.Sync())
}

func extractLogLine(out []byte) []byte {
	for _, line := range bytes.Split(out, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(line, &payload); err != nil {
			continue
		}
		if _, ok := payload["msg"]; ok {
			return line
		}
	}
	return nil
}

func extractMessage(bytes []byte) (string, error) {
	return extractField(bytes, "msg")
}

func extractLevel(bytes []byte) (string, error) {
	return extractField(bytes, "level")
}

func extractField(bytes []byte, key string) (string, error) {
	c := make(map[string]json.RawMessage)
	if err := json.Unmarshal(bytes, &c); err != nil {
		return "", err
	}
	if v, ok := c[key]; ok {
		return strconv.Unquote(string(v))
	}
	return "", nil
}

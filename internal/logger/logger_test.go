package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short", in: "hello", limit: 10, want: "hello"},
		{name: "trimmed", in: "  hello  ", limit: 10, want: "hello"},
		{name: "flattened", in: "Match %: 80\n\nDecision:\t✅ Shortlist", limit: 50, want: "Match %: 80 Decision: ✅ Shortlist"},
		{name: "cut", in: "abcdefgh", limit: 3, want: "abc..."},
		{name: "multibyte", in: "résumé", limit: 2, want: "ré..."},
		{name: "zero limit", in: "abc", limit: 0, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TruncateForLog(tc.in, tc.limit))
		})
	}
}

func TestNew_Levels(t *testing.T) {
	log, err := New(Options{JSON: true, Debug: true})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel), "debug level should be enabled")

	log, err = New(Options{})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel), "debug level should be disabled")
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_JSONToFileWithService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Options{JSON: true, Output: path, Service: "api"})
	require.NoError(t, err)
	log.Info("server starting", zap.String("addr", ":8000"))
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "server starting", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, ":8000", entry["addr"])
	assert.Contains(t, entry, "time")
}

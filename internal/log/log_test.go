package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	applog "barstore/internal/log"
)

func TestEntriesAreJSONLines(t *testing.T) {
	var buf bytes.Buffer
	applog.SetOutput(&buf)
	t.Cleanup(func() { applog.SetOutput(os.Stdout) })

	applog.Info(nil, "catalog.fetch", map[string]any{"count": 3})
	applog.Error(nil, "cart.mutate.fail", errors.New("backend down"), nil)
	applog.Audit(nil, "cart.clear", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "info", first["level"])
	require.Equal(t, "catalog.fetch", first["action"])
	require.NotEmpty(t, first["ts"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "error", second["level"])
	require.Equal(t, "backend down", second["err"])

	var third map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))
	require.Equal(t, "audit", third["fields"].(map[string]any)["kind"])
}

func TestDebugHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	applog.SetOutput(&buf)
	applog.SetLevel("info")
	t.Cleanup(func() { applog.SetOutput(os.Stdout) })

	applog.Debug(nil, "backend.request", nil)
	require.Empty(t, buf.String())

	applog.SetLevel("debug")
	t.Cleanup(func() { applog.SetLevel("info") })
	applog.Debug(nil, "backend.request", nil)
	require.Contains(t, buf.String(), "backend.request")
}

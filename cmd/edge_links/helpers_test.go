package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/edge-workspace-links/internal/config"
)

// clearEnv unsets every variable the commands read so tests do not pick up
// the developer's shell or .env file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvMode, config.EnvFormat, config.EnvExcludeSchemes, config.EnvExcludeInternal,
		config.EnvSort, config.EnvWorkers, config.EnvLogLevel, config.EnvLogFile, config.EnvDatabaseURL,
	} {
		t.Setenv(name, "")
	}
}

// execute runs the root command in-process with args and returns what it
// wrote to stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// writeWorkspace writes a .edge container holding one gzip member per
// payload, separated by bytes that are not valid members.
func writeWorkspace(t *testing.T, path string, payloads ...string) {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("EDGEWS\x00\x01")
	for _, p := range payloads {
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write([]byte(p))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		buf.Write([]byte{0x1f, 0x00, 0xff, 0x10})
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

const (
	tabPayload = `{"nodeType":1,"url":"https://tab.example","title":"Tab"}`
	favPayload = `{"nodeType":2,"url":"https://fav.example","title":"Fav"}`
)

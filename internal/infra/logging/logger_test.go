//go:build !integration && !e2e

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "certprofile.log")

	logger, err := NewFileLogger(path, "info")
	require.NoError(t, err)

	logger.Info("applied profile %s", "webserver")
	logger.Warning("unknown extension %q", "basic_constraints")
	logger.Error("boom")
	logger.Log("plain message")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "applied profile webserver")
	assert.Contains(t, out, `unknown extension \"basic_constraints\"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "plain message")
}

func TestFileLogger_InvalidLevel(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}

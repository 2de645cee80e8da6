package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToFileCreatesDirectory(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "machine.csv")

	require.NoError(t, AppendToFile(p, "a,b"))
	require.NoError(t, AppendToFile(p, "1,2", "3,4"))

	bs, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(bs))
}

func TestNewLoggerLevels(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(buf, false)
	logger.Debug("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

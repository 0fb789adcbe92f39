package dwarflog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFileWhenPathGiven(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwarfkit.log")

	logger, closer, err := New(Options{FilePath: path})
	require.NoError(t, err)
	defer closer()

	logger.Info("cu parsed", "offset", 0x10)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cu parsed")
}

func TestDiscard_NeverPanics(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Warn("malformed input", "kind", "INVALID_DWARF") })
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSlotFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"300.bin", "12.bin", "notes.bin", "100.txt", "250.bin"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{0}, 0o644))
	}

	files, err := listSlotFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, uint64(12), files[0].slot)
	assert.Equal(t, uint64(250), files[1].slot)
	assert.Equal(t, uint64(300), files[2].slot)
	assert.Equal(t, filepath.Join(dir, "12.bin"), files[0].path)
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAudioFilesFiltersByWavExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.wav"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.WAV"), []byte("x"), 0o644))

	got, err := findAudioFiles(dir)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFindAudioFilesEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	got, err := findAudioFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, got)
}

package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type badReader struct{}

func (badReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "state")

	require.NoError(t, WriteFileAtomic(final+".tmp", final, strings.NewReader("v1")))
	require.NoError(t, WriteFileAtomic(final+".tmp", final, strings.NewReader("v2")))

	b, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(b))
	_, err = os.Stat(final + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteFileAtomic_ReaderErrorKeepsOld(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "state")
	require.NoError(t, os.WriteFile(final, []byte("old"), 0o644))

	err := WriteFileAtomic(final+".tmp", final, badReader{})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	b, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "old", string(b))
}

func TestWriteJSONAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	require.NoError(t, WriteJSONAtomic(path, map[string]int{"size": 42}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"size":42}`, string(b))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := FileExists(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = FileExists(dir)
	assert.Error(t, err)

	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	ok, err = FileExists(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMapFilter(t *testing.T) {
	assert.Equal(t, []int{2, 4}, Map([]int{1, 2}, func(i int) int { return i * 2 }))
	assert.Equal(t, []int{2}, Filter([]int{1, 2, 3}, func(i int) bool { return i%2 == 0 }))
	assert.Equal(t, []int{}, Filter([]int(nil), func(int) bool { return true }))
}

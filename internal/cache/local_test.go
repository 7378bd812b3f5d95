package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	m.Run()
}

type fixture struct {
	cache   *Local
	archive string
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tmp := t.TempDir()
	l, err := NewLocal(filepath.Join(tmp, "cache"), "linux")
	require.NoError(t, err)

	f := &fixture{cache: l, archive: filepath.Join(tmp, "home", ".docker-images.tar"), clock: time.Unix(1700000000, 0)}
	l.Now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	return f
}

func (f *fixture) writeArchive(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(f.archive), 0o755))
	require.NoError(t, os.WriteFile(f.archive, []byte(content), 0o644))
}

func (f *fixture) readArchive(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(f.archive)
	require.NoError(t, err)
	return string(b)
}

func TestSaveAndRestore_ExactKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.writeArchive(t, "layers-v1")

	size, err := f.cache.Save(ctx, []string{f.archive}, "k1", nil)
	require.NoError(t, err)
	assert.Positive(t, size)

	require.NoError(t, os.Remove(f.archive))

	key, err := f.cache.Restore(ctx, []string{f.archive}, "k1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "k1", key)
	assert.Equal(t, "layers-v1", f.readArchive(t))
}

func TestRestore_Miss(t *testing.T) {
	f := newFixture(t)
	key, err := f.cache.Restore(context.Background(), []string{f.archive}, "nope", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestRestore_LookupOnlyDoesNotExtract(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.writeArchive(t, "v1")
	_, err := f.cache.Save(ctx, []string{f.archive}, "k1", nil)
	require.NoError(t, err)

	f.writeArchive(t, "local-change")
	key, err := f.cache.Restore(ctx, []string{f.archive}, "k1", nil, &Options{LookupOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "k1", key)
	assert.Equal(t, "local-change", f.readArchive(t))
}

func TestRestore_RestoreKeysPrefixNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.writeArchive(t, "old")
	_, err := f.cache.Save(ctx, []string{f.archive}, "images-linux-aaa", nil)
	require.NoError(t, err)
	f.writeArchive(t, "new")
	_, err = f.cache.Save(ctx, []string{f.archive}, "images-linux-bbb", nil)
	require.NoError(t, err)

	key, err := f.cache.Restore(ctx, []string{f.archive}, "images-linux-ccc", []string{"images-linux-"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "images-linux-bbb", key)
	assert.Equal(t, "new", f.readArchive(t))
}

func TestSave_ExistingKeyIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.writeArchive(t, "v1")
	_, err := f.cache.Save(ctx, []string{f.archive}, "k1", nil)
	require.NoError(t, err)

	_, err = f.cache.Save(ctx, []string{f.archive}, "k1", nil)
	assert.ErrorIs(t, err, ErrKeyExists)
}

func TestSave_ConcurrentSameKeyKeepsOneEntry(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		f.cache.Now = func() time.Time { return time.Unix(1700000000, 0) }
		ctx := context.Background()
		f.writeArchive(t, "layers")

		var wg sync.WaitGroup
		errCh := make(chan error, 2)
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.cache.Save(ctx, []string{f.archive}, "k1", nil)
				errCh <- err
			}()
		}
		wg.Wait()
		close(errCh)

		var saved, rejected int
		for err := range errCh {
			switch {
			case err == nil:
				saved++
			case errors.Is(err, ErrKeyExists):
				rejected++
			default:
				t.Fatalf("unexpected save error: %v", err)
			}
		}
		assert.Equal(t, 1, saved)
		assert.Equal(t, 1, rejected)

		require.NoError(t, os.Remove(f.archive))
		key, err := f.cache.Restore(ctx, []string{f.archive}, "k1", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "k1", key)
		assert.Equal(t, "layers", f.readArchive(t))
	}
}

func TestSave_MissingPath(t *testing.T) {
	f := newFixture(t)
	_, err := f.cache.Save(context.Background(), []string{f.archive}, "k1", nil)
	assert.Error(t, err)

	key, err := f.cache.Restore(context.Background(), []string{f.archive}, "k1", nil, &Options{LookupOnly: true})
	require.NoError(t, err)
	assert.Empty(t, key, "failed save must not leave an entry behind")
}

func TestSaveRestore_InvalidArguments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cache.Save(ctx, nil, "k", nil)
	assert.ErrorIs(t, err, ErrNoPaths)
	_, err = f.cache.Save(ctx, []string{f.archive}, "", nil)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = f.cache.Restore(ctx, nil, "k", nil, nil)
	assert.ErrorIs(t, err, ErrNoPaths)
}

func TestRestore_CorruptArchiveFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.writeArchive(t, "v1")
	_, err := f.cache.Save(ctx, []string{f.archive}, "k1", nil)
	require.NoError(t, err)

	entry := filepath.Join(f.cache.entryDir("k1", Version([]string{f.archive}, "linux", nil)), archiveName)
	require.NoError(t, os.WriteFile(entry, []byte("tampered"), 0o644))

	_, err = f.cache.Restore(ctx, []string{f.archive}, "k1", nil, nil)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	paths := []string{"/home/u/.docker-images.tar"}

	assert.Equal(t, Version(paths, "linux", nil), Version(paths, "darwin", nil))
	assert.NotEqual(t, Version(paths, "linux", nil), Version(paths, "windows", nil))
	assert.Equal(t, Version(paths, "linux", nil), Version(paths, "windows", &Options{EnableCrossOsArchive: true}))
	assert.NotEqual(t, Version(paths, "linux", nil), Version([]string{"/other"}, "linux", nil))
}

func TestRestore_DifferentVersionIsAMiss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.writeArchive(t, "v1")
	_, err := f.cache.Save(ctx, []string{f.archive}, "k1", nil)
	require.NoError(t, err)

	win := &Local{Dir: f.cache.Dir, Platform: "windows", Now: time.Now}
	key, err := win.Restore(ctx, []string{f.archive}, "k1", nil, &Options{LookupOnly: true})
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestWithin(t *testing.T) {
	root := filepath.Join("/home", "u", "cache")
	assert.True(t, within(root, []string{root}))
	assert.True(t, within(filepath.Join(root, "a"), []string{root}))
	assert.False(t, within(root+"-evil", []string{root}))
	assert.False(t, within(filepath.Join(root, "..", "x"), []string{root}))
}

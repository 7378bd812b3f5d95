package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/MrSnakeDoc/imgcache/internal/utils"
	"github.com/docker/go-units"
	"github.com/opencontainers/go-digest"
)

const (
	archiveName = "archive.tar.zst"
	metaName    = "meta.json"
)

type Meta struct {
	Key       string        `json:"key"`
	Version   string        `json:"version"`
	SizeBytes int64         `json:"size_bytes"`
	Digest    digest.Digest `json:"digest"`
	CreatedAt time.Time     `json:"created_at"`
}

// Local is a directory-backed Service. Each entry is a directory holding
// a zstd tar archive and its meta.json.
type Local struct {
	Dir      string
	Platform string
	Now      func() time.Time
}

func NewLocal(dir, platform string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Local{Dir: dir, Platform: platform, Now: time.Now}, nil
}

func (l *Local) entryDir(key, version string) string {
	return filepath.Join(l.Dir, digest.FromString(key+"\x00"+version).Encoded())
}

func (l *Local) Restore(ctx context.Context, paths []string, primaryKey string, restoreKeys []string, opts *Options) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoPaths
	}
	if primaryKey == "" {
		return "", ErrEmptyKey
	}
	version := Version(paths, l.Platform, opts)

	m, ok, err := l.find(primaryKey, restoreKeys, version)
	if err != nil || !ok {
		return "", err
	}
	if opts != nil && opts.LookupOnly {
		logger.Debug("cache entry found for key %s (lookup only)", m.Key)
		return m.Key, nil
	}

	dir := l.entryDir(m.Key, m.Version)
	if err := extractArchive(ctx, filepath.Join(dir, archiveName), m.Digest, paths); err != nil {
		return "", fmt.Errorf("failed to restore cache entry %s: %w", m.Key, err)
	}
	logger.Debug("restored cache entry %s (%s)", m.Key, units.HumanSize(float64(m.SizeBytes)))
	return m.Key, nil
}

func (l *Local) Save(ctx context.Context, paths []string, key string, opts *Options) (int64, error) {
	if len(paths) == 0 {
		return 0, ErrNoPaths
	}
	if key == "" {
		return 0, ErrEmptyKey
	}
	version := Version(paths, l.Platform, opts)
	dir := l.entryDir(key, version)

	// The entry directory is the claim on key: whoever creates it writes
	// the entry, everyone else gets ErrKeyExists.
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, fmt.Errorf("%w: %s", ErrKeyExists, key)
		}
		return 0, fmt.Errorf("mkdir %s: %w", dir, err)
	}

	size, dgst, err := writeArchive(ctx, filepath.Join(dir, archiveName), paths)
	if err != nil {
		_ = os.RemoveAll(dir)
		return 0, fmt.Errorf("failed to archive paths: %w", err)
	}

	meta := Meta{
		Key:       key,
		Version:   version,
		SizeBytes: size,
		Digest:    dgst,
		CreatedAt: l.Now().UTC(),
	}
	if err := utils.WriteJSONAtomic(filepath.Join(dir, metaName), meta); err != nil {
		_ = os.RemoveAll(dir)
		return 0, fmt.Errorf("failed to write cache meta: %w", err)
	}

	logger.Debug("saved cache entry %s (%s)", key, units.HumanSize(float64(size)))
	return size, nil
}

// find resolves the exact key first, then each restore-key prefix, newest
// entry first.
func (l *Local) find(primaryKey string, restoreKeys []string, version string) (Meta, bool, error) {
	if m, err := readMeta(filepath.Join(l.entryDir(primaryKey, version), metaName)); err == nil {
		return m, true, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Meta{}, false, err
	}

	if len(restoreKeys) == 0 {
		return Meta{}, false, nil
	}

	entries, err := l.list(version)
	if err != nil {
		return Meta{}, false, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	for _, prefix := range restoreKeys {
		for _, m := range entries {
			if strings.HasPrefix(m.Key, prefix) {
				return m, true, nil
			}
		}
	}
	return Meta{}, false, nil
}

func (l *Local) list(version string) ([]Meta, error) {
	dirs, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache dir: %w", err)
	}

	var out []Meta
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		m, err := readMeta(filepath.Join(l.Dir, d.Name(), metaName))
		if err != nil {
			logger.Debug("skipping cache entry %s: %v", d.Name(), err)
			continue
		}
		if m.Version == version {
			out = append(out, m)
		}
	}
	return out, nil
}

func readMeta(path string) (m Meta, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Meta{}, err
	}
	defer utils.Close(f)

	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return Meta{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return m, nil
}

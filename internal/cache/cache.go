package cache

import (
	"context"
	"errors"
	"strings"

	"github.com/opencontainers/go-digest"
)

var (
	ErrKeyExists = errors.New("cache entry already exists")
	ErrNoPaths   = errors.New("at least one path is required")
	ErrEmptyKey  = errors.New("cache key must not be empty")
)

const compressionMethod = "zstd"

type Options struct {
	// LookupOnly checks that an entry exists without restoring it.
	LookupOnly bool
	// EnableCrossOsArchive lets an archive saved on windows be restored
	// on another OS and the other way around.
	EnableCrossOsArchive bool
}

// Service is a remote key/value archive cache.
type Service interface {
	// Restore returns the key that matched, or "" when nothing matched.
	// restoreKeys are prefixes tried in order after primaryKey.
	Restore(ctx context.Context, paths []string, primaryKey string, restoreKeys []string, opts *Options) (string, error)
	// Save archives paths under key and returns the archive size in bytes.
	Save(ctx context.Context, paths []string, key string, opts *Options) (int64, error)
}

// Version identifies which archives are interchangeable: the same paths,
// compression and, unless cross-OS archives are enabled, windows-ness.
func Version(paths []string, platform string, opts *Options) string {
	components := append([]string{}, paths...)
	components = append(components, compressionMethod)
	if platform == "windows" && (opts == nil || !opts.EnableCrossOsArchive) {
		components = append(components, "windows-only")
	}
	return digest.FromString(strings.Join(components, "|")).Encoded()
}

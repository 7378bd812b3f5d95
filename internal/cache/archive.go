package cache

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/imgcache/internal/utils"
	"github.com/klauspost/compress/zstd"
	"github.com/opencontainers/go-digest"
)

// writeArchive tars paths into a zstd stream written to a temp file next to
// final, then renames it into place.
func writeArchive(ctx context.Context, final string, paths []string) (int64, digest.Digest, error) {
	tmp, err := os.CreateTemp(filepath.Dir(final), ".archive-*.tmp")
	if err != nil {
		return 0, "", err
	}
	utils.Close(tmp)

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(compressPaths(ctx, pw, paths))
	}()

	digester := digest.Canonical.Digester()
	counter := &countingReader{r: io.TeeReader(pr, digester.Hash())}
	if err := utils.WriteFileAtomic(tmp.Name(), final, counter); err != nil {
		_ = pr.CloseWithError(err)
		return 0, "", err
	}
	return counter.n, digester.Digest(), nil
}

func compressPaths(ctx context.Context, w io.Writer, paths []string) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(zw)

	for _, root := range paths {
		if err := addPath(ctx, tw, root); err != nil {
			_ = tw.Close()
			_ = zw.Close()
			return err
		}
	}
	if err := tw.Close(); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

func addPath(ctx context.Context, tw *tar.Writer, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(path)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer utils.Close(f)
		_, err = io.Copy(tw, f)
		return err
	})
}

// extractArchive verifies the archive against expected and writes its
// entries back to disk. Entries outside of paths are rejected.
func extractArchive(ctx context.Context, archive string, expected digest.Digest, paths []string) error {
	if err := verify(archive, expected); err != nil {
		return err
	}

	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer utils.Close(f)

	zr, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		target := filepath.FromSlash(hdr.Name)
		if !within(target, paths) {
			return fmt.Errorf("archive entry %q is outside of the cached paths", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := utils.WriteFileAtomic(target+".tmp", target, tr); err != nil {
				return err
			}
		}
	}
}

func verify(archive string, expected digest.Digest) error {
	if expected == "" {
		return nil
	}
	if err := expected.Validate(); err != nil {
		return err
	}

	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer utils.Close(f)

	v := expected.Verifier()
	if _, err := io.Copy(v, f); err != nil {
		return err
	}
	if !v.Verified() {
		return fmt.Errorf("archive %s does not match digest %s", archive, expected)
	}
	return nil
}

func within(target string, paths []string) bool {
	clean := filepath.Clean(target)
	for _, p := range paths {
		root := filepath.Clean(p)
		if clean == root || strings.HasPrefix(clean, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

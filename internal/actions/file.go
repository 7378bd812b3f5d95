package actions

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/MrSnakeDoc/imgcache/internal/utils"
)

// FileStore keeps state as one file per name under Dir so that a later
// process of the same run can read it back. Inputs come from the CLI.
type FileStore struct {
	Dir    string
	Inputs map[string]string
	failed bool
}

func NewFileStore(dir string, inputs map[string]string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	if inputs == nil {
		inputs = map[string]string{}
	}
	return &FileStore{Dir: dir, Inputs: inputs}, nil
}

func (f *FileStore) GetInput(name string, opts *InputOptions) (string, error) {
	return requireInput(name, f.Inputs[name], opts)
}

func (f *FileStore) GetState(name string) string {
	data, err := os.ReadFile(filepath.Join(f.Dir, name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Debug("failed to read state %s: %v", name, err)
		}
		return ""
	}
	return string(data)
}

func (f *FileStore) SaveState(name, value string) error {
	final := filepath.Join(f.Dir, name)
	return utils.WriteFileAtomic(final+".tmp", final, bytes.NewReader([]byte(value)))
}

func (f *FileStore) SetOutput(name, value string) error {
	logger.Info("output %s=%s", name, value)
	return nil
}

func (f *FileStore) Notice(format string, args ...any) {
	logger.Info(format, args...)
}

func (f *FileStore) SetFailed(err error) {
	f.failed = true
	logger.LogError("%v", err)
}

func (f *FileStore) Failed() bool { return f.failed }

// Clear removes the state of a finished run.
func (f *FileStore) Clear() error {
	for _, name := range []string{StateCacheHit, StateImagesList} {
		if err := os.Remove(filepath.Join(f.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

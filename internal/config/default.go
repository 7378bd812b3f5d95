package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	ArchiveFile = ".docker-images.tar"

	WindowsShell = `C:\Program Files\Git\bin\bash.exe`
	UnixShell    = "/usr/bin/bash"

	BackendGitHub = "github"
	BackendFile   = "file"

	defaultCacheDir = ".cache/imgcache"
	defaultStateDir = ".local/state/imgcache"
)

// Provider isolates lookups of the host environment.
type Provider interface {
	HomeDir() (string, error)
	Platform() string
	Env(name string) string
}

// System reads the real host.
type System struct{}

func (System) HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return home, nil
}

func (System) Platform() string { return runtime.GOOS }

func (System) Env(name string) string { return os.Getenv(name) }

// Static is a fixed Provider, mostly for tests.
type Static struct {
	Home string
	OS   string
	Vars map[string]string
}

func (s Static) HomeDir() (string, error) {
	if s.Home == "" {
		return "", fmt.Errorf("home directory not set")
	}
	return s.Home, nil
}

func (s Static) Platform() string {
	if s.OS == "" {
		return runtime.GOOS
	}
	return s.OS
}

func (s Static) Env(name string) string { return s.Vars[name] }

type Config struct {
	Backend  string `yaml:"backend"`
	CacheDir string `yaml:"cache_dir"`
	StateDir string `yaml:"state_dir"`
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig(p Provider) (Config, error) {
	home, err := p.HomeDir()
	if err != nil {
		return Config{}, err
	}

	backend := BackendFile
	if p.Env("GITHUB_ACTIONS") == "true" {
		backend = BackendGitHub
	}

	return Config{
		Backend:  backend,
		CacheDir: filepath.Join(home, defaultCacheDir),
		StateDir: filepath.Join(home, defaultStateDir),
		LogLevel: "info",
	}, nil
}

// ArchivePath is the single archive location used by both load and save.
func ArchivePath(p Provider) (string, error) {
	home, err := p.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ArchiveFile), nil
}

func ShellPath(p Provider) string {
	if p.Platform() == "windows" {
		return WindowsShell
	}
	return UnixShell
}

package config

import (
	"path/filepath"
	"testing"
)

func TestArchivePath(t *testing.T) {
	p := Static{Home: "/home/runner"}
	got, err := ArchivePath(p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if want := filepath.Join("/home/runner", ".docker-images.tar"); got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestArchivePath_NoHome(t *testing.T) {
	if _, err := ArchivePath(Static{}); err == nil {
		t.Fatal("want error without home directory")
	}
}

func TestShellPath(t *testing.T) {
	if got := ShellPath(Static{Home: "/h", OS: "windows"}); got != WindowsShell {
		t.Fatalf("windows: got %s", got)
	}
	if got := ShellPath(Static{Home: "/h", OS: "linux"}); got != UnixShell {
		t.Fatalf("linux: got %s", got)
	}
	if got := ShellPath(Static{Home: "/h", OS: "darwin"}); got != UnixShell {
		t.Fatalf("darwin: got %s", got)
	}
}

func TestDefaultConfig_Backend(t *testing.T) {
	home := t.TempDir()

	c, err := DefaultConfig(Static{Home: home, Vars: map[string]string{"GITHUB_ACTIONS": "true"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Backend != BackendGitHub {
		t.Fatalf("want github backend on actions, got %s", c.Backend)
	}

	t.Setenv("GITHUB_ACTIONS", "true")
	c, err = DefaultConfig(Static{Home: home})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Backend != BackendFile {
		t.Fatalf("want file backend when the provider has no GITHUB_ACTIONS, got %s", c.Backend)
	}
	if c.CacheDir == "" || c.StateDir == "" {
		t.Fatal("want cache and state dirs")
	}
}

func TestSystemEnv(t *testing.T) {
	t.Setenv("IMGCACHE_TEST_VAR", "x")
	if got := (System{}).Env("IMGCACHE_TEST_VAR"); got != "x" {
		t.Fatalf("want x, got %q", got)
	}
}

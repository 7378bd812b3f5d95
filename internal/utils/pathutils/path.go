package pathutils

import (
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/imgcache/internal/config"
)

func ToHomePathFormat(p config.Provider, path string) (string, error) {
	home, err := p.HomeDir()
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home), nil
	}
	return path, nil
}

func ToAbsolutePath(p config.Provider, path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := p.HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

package globalconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/imgcache/internal/config"
	"github.com/MrSnakeDoc/imgcache/internal/utils/pathutils"

	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/imgcache"
	configFile = "config.yml"
)

func GetConfigPath(p config.Provider) (string, error) {
	home, err := p.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir, configFile), nil
}

// Load returns the defaults overlaid with the config file at path.
// An empty path falls back to ~/.config/imgcache/config.yml; a missing
// default file is not an error, a missing explicit file is.
func Load(p config.Provider, path string) (*config.Config, error) {
	cfg, err := config.DefaultConfig(p)
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		if path, err = GetConfigPath(p); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file config.Config
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	if file.Backend != "" {
		cfg.Backend = file.Backend
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.CacheDir != "" {
		if cfg.CacheDir, err = pathutils.ToAbsolutePath(p, file.CacheDir); err != nil {
			return nil, fmt.Errorf("failed to resolve cache dir: %w", err)
		}
	}
	if file.StateDir != "" {
		if cfg.StateDir, err = pathutils.ToAbsolutePath(p, file.StateDir); err != nil {
			return nil, fmt.Errorf("failed to resolve state dir: %w", err)
		}
	}

	return &cfg, nil
}

func Save(p config.Provider, cfg *config.Config) error {
	path, err := GetConfigPath(p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *cfg
	if out.CacheDir, err = pathutils.ToHomePathFormat(p, cfg.CacheDir); err != nil {
		return fmt.Errorf("failed to convert to home path format: %w", err)
	}
	if out.StateDir, err = pathutils.ToHomePathFormat(p, cfg.StateDir); err != nil {
		return fmt.Errorf("failed to convert to home path format: %w", err)
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

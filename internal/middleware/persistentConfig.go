package middleware

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/imgcache/internal/config"
	"github.com/MrSnakeDoc/imgcache/internal/globalconfig"
	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/spf13/cobra"
)

// Provider is the host environment seen by every command.
var Provider config.Provider = config.System{}

func LoadConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := globalconfig.Load(Provider, path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.ConfigureLoggerFromFlags(cfg.LogLevel)
	logger.Debug("config: backend=%s cache_dir=%s state_dir=%s", cfg.Backend, cfg.CacheDir, cfg.StateDir)

	ctx := context.WithValue(cmd.Context(), CtxKeyConfig, cfg)
	cmd.SetContext(ctx)

	return next(cmd, args)
}

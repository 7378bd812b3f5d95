package internal

import (
	"fmt"

	"github.com/MrSnakeDoc/imgcache/internal/config"
	"github.com/MrSnakeDoc/imgcache/internal/errs"
	"github.com/MrSnakeDoc/imgcache/internal/globalconfig"
	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/MrSnakeDoc/imgcache/internal/middleware"
	"github.com/MrSnakeDoc/imgcache/internal/utils"

	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	var (
		force   bool
		backend string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Writes the default configuration file",
		Long: `Writes ~/.config/imgcache/config.yml with the current settings.

Examples:
    imgcache init
    imgcache init --backend file --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			path, err := globalconfig.GetConfigPath(middleware.Provider)
			if err != nil {
				return err
			}
			if ok, _ := utils.FileExists(path); ok && !force {
				return fmt.Errorf("config file %s already exists, use --force to overwrite it", path)
			}

			if backend != "" {
				if backend != config.BackendGitHub && backend != config.BackendFile {
					return middleware.CodeError(errs.UnknownBackend, backend)
				}
				cfg.Backend = backend
			}

			if err := globalconfig.Save(middleware.Provider, cfg); err != nil {
				return err
			}
			logger.Success("Configuration written to %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	cmd.Flags().StringVar(&backend, "backend", "", "State backend to write (github or file)")

	return cmd
}

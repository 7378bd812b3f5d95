package internal

import (
	"fmt"

	"github.com/MrSnakeDoc/imgcache/internal/actions"
	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/MrSnakeDoc/imgcache/internal/middleware"

	"github.com/spf13/cobra"
)

func NewResetCmd() *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clears the state recorded by load",
		Long: `Forgets the cache-hit flag and the image list recorded by "load" so that
the next local run starts over. With --prune, the images that appeared since
"load" are removed from Docker first.

Examples:
    imgcache reset
    imgcache reset --prune`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := middleware.Get[*middleware.Env](cmd, middleware.CtxKeyEnv)
			if err != nil {
				return err
			}

			if prune {
				n, err := env.Manager.Prune(cmd.Context())
				if err != nil {
					return err
				}
				logger.Success("Removed %d Docker images.", n)
			}

			clearer, ok := env.Pipeline.(actions.Clearer)
			if !ok {
				logger.Warn("The %s backend keeps no local state.", env.Config.Backend)
				return pipelineStatus(env)
			}
			if err := clearer.Clear(); err != nil {
				return fmt.Errorf("failed to clear state: %w", err)
			}
			logger.Success("State cleared.")

			return pipelineStatus(env)
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Remove the Docker images that are new since load")

	return cmd
}

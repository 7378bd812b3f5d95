package internal

import (
	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/MrSnakeDoc/imgcache/internal/middleware"

	"github.com/spf13/cobra"
)

func NewSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Saves new Docker images to the cache (post phase)",
		Long: `Compares the current Docker images with the list recorded by "load" and
stores the new ones under the cache key.

Nothing is saved when "load" had a cache hit, when --read-only is set, or
when another run already saved the same key.

The archive goes to the local cache_dir. It is only there for the next run
on a self-hosted runner or when cache_dir is persisted between jobs.

Examples:
    imgcache save --key docker-images-v1
    imgcache save --key docker-images-v1 --read-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := middleware.Get[*middleware.Env](cmd, middleware.CtxKeyEnv)
			if err != nil {
				return err
			}

			logger.Debug("Saving Docker images...")
			if err := env.Manager.Save(cmd.Context()); err != nil {
				return err
			}

			return pipelineStatus(env)
		},
	}

	addInputFlags(cmd)

	return cmd
}

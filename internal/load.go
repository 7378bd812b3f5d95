package internal

import (
	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/MrSnakeDoc/imgcache/internal/middleware"

	"github.com/spf13/cobra"
)

func NewLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Restores cached Docker images (pre phase)",
		Long: `Restores the image archive saved under the cache key and loads it into
Docker. On a miss, records the current image list so that "save" can tell
which images are new.

Examples:
    imgcache load --key docker-images-v1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := middleware.Get[*middleware.Env](cmd, middleware.CtxKeyEnv)
			if err != nil {
				return err
			}

			logger.Info("Loading Docker images...")
			if err := env.Manager.Load(cmd.Context()); err != nil {
				return err
			}
			logger.Info("Docker images loaded.")

			return pipelineStatus(env)
		},
	}

	addInputFlags(cmd)

	return cmd
}

// pipelineStatus turns a reported failure into a non-zero exit once the
// command has run to completion.
func pipelineStatus(env *middleware.Env) error {
	if env.Pipeline.Failed() {
		return middleware.ErrLogged
	}
	return nil
}

package internal

import (
	"github.com/MrSnakeDoc/imgcache/internal/inventory"
	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/MrSnakeDoc/imgcache/internal/middleware"

	"github.com/spf13/cobra"
)

func NewDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Shows the Docker images that are new since load",
		Long: `Shows the images that "save" would archive, without touching the cache.

Examples:
    imgcache diff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := middleware.Get[*middleware.Env](cmd, middleware.CtxKeyEnv)
			if err != nil {
				return err
			}

			images, err := env.Manager.NewImages(cmd.Context())
			if err != nil {
				return err
			}
			if len(images) == 0 {
				logger.Info("No new Docker images.")
				return nil
			}
			inventory.RenderTable("", images)
			return nil
		},
	}
}

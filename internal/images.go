package internal

import (
	"github.com/MrSnakeDoc/imgcache/internal/inventory"
	"github.com/MrSnakeDoc/imgcache/internal/middleware"

	"github.com/spf13/cobra"
)

func NewImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "Lists the local Docker images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := middleware.Get[*middleware.Env](cmd, middleware.CtxKeyEnv)
			if err != nil {
				return err
			}

			images, err := env.Runtime.ListImages(cmd.Context())
			if err != nil {
				return err
			}
			inventory.RenderTable("", images)
			return nil
		},
	}
}

package internal

import (
	"github.com/MrSnakeDoc/imgcache/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildEnv)(NewLoadCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildEnv)(NewSaveCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildEnv)(NewImagesCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildEnv)(NewDiffCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildEnv)(NewResetCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewInitCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("key", "", "Cache key (defaults to the INPUT_KEY variable on GitHub Actions)")
	cmd.Flags().Bool("read-only", false, "Never write the cache, even on a miss")
}

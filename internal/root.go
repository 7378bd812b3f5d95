package internal

import (
	"github.com/MrSnakeDoc/imgcache/internal/checker"
	"github.com/MrSnakeDoc/imgcache/internal/logger"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imgcache",
		Short: "Docker image cache for CI pipelines",
		Long: `imgcache keeps the local Docker images of a CI job between pipeline runs.

Run "imgcache load" at the start of the job: it restores the archive saved
under the cache key, or records the current image list when there is none.
Run "imgcache save" at the end of the job: it archives the images pulled or
built since "load" and stores them under the same key.

Archives are kept in cache_dir (default ~/.cache/imgcache) on the machine
running the job. Hosted runners discard it after each job, so entries only
survive between runs on a self-hosted runner or when cache_dir is persisted,
for example by a cache step of the CI host.`,
		Example: `imgcache load --key docker-${{ hashFiles('compose.yml') }}
imgcache save --key docker-${{ hashFiles('compose.yml') }}`,
		Run: func(cmd *cobra.Command, _ []string) {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				checker.PrintVersion(cmd.OutOrStdout())
				return
			}
			_ = cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().String("config", "", "Path to the config file (default ~/.config/imgcache/config.yml)")
	cmd.PersistentFlags().CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Increase verbosity")
	cmd.PersistentFlags().BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().BoolVarP(&logger.FlagSilent, "silent", "s", false, "Print nothing")
	cmd.PersistentFlags().BoolVar(&logger.FlagJSON, "json", false, "Log as JSON")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	logger.ConfigureLoggerFromFlags("info")
	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}

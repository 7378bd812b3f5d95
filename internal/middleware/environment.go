package middleware

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/imgcache/internal/actions"
	"github.com/MrSnakeDoc/imgcache/internal/cache"
	"github.com/MrSnakeDoc/imgcache/internal/config"
	"github.com/MrSnakeDoc/imgcache/internal/docker"
	"github.com/MrSnakeDoc/imgcache/internal/errs"
	"github.com/MrSnakeDoc/imgcache/internal/lifecycle"
	"github.com/MrSnakeDoc/imgcache/internal/runner"
	"github.com/spf13/cobra"
)

// Env holds the collaborators of one command invocation.
type Env struct {
	Config   *config.Config
	Pipeline actions.Pipeline
	Runtime  docker.Runtime
	Manager  *lifecycle.Manager
}

var (
	CommandRunner runner.CommandRunner = runner.ExecRunner{}

	NewRuntime = func(sh *runner.Shell) (docker.Runtime, error) {
		return docker.NewClient(sh)
	}

	NewCache = func(cfg *config.Config, p config.Provider) (cache.Service, error) {
		return cache.NewLocal(cfg.CacheDir, p.Platform())
	}
)

var inputFlags = []string{actions.InputKey, actions.InputReadOnly}

func flagInputs(cmd *cobra.Command) map[string]string {
	inputs := map[string]string{}
	for _, name := range inputFlags {
		f := cmd.Flags().Lookup(name)
		if f != nil && f.Changed {
			inputs[name] = f.Value.String()
		}
	}
	return inputs
}

func newPipeline(cfg *config.Config, inputs map[string]string) (actions.Pipeline, error) {
	switch cfg.Backend {
	case config.BackendGitHub:
		gh := actions.NewGitHub()
		gh.Overrides = inputs
		return gh, nil
	case config.BackendFile:
		return actions.NewFileStore(cfg.StateDir, inputs)
	default:
		return nil, CodeError(errs.UnknownBackend, cfg.Backend)
	}
}

func BuildEnv(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := Get[*config.Config](cmd, CtxKeyConfig)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(cfg, flagInputs(cmd))
	if err != nil {
		return err
	}

	archive, err := config.ArchivePath(Provider)
	if err != nil {
		return err
	}

	sh := runner.NewShell(CommandRunner, config.ShellPath(Provider), pipeline)
	rt, err := NewRuntime(sh)
	if err != nil {
		return err
	}

	svc, err := NewCache(cfg, Provider)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	env := &Env{
		Config:   cfg,
		Pipeline: pipeline,
		Runtime:  rt,
		Manager:  lifecycle.New(pipeline, svc, rt, archive),
	}
	cmd.SetContext(context.WithValue(cmd.Context(), CtxKeyEnv, env))

	return next(cmd, args)
}

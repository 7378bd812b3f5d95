package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/imgcache/internal/errs"
	"github.com/MrSnakeDoc/imgcache/internal/logger"
)

type FailReporter interface {
	SetFailed(err error)
}

// Shell runs command strings through an interactive shell binary.
type Shell struct {
	Runner   CommandRunner
	Path     string
	Reporter FailReporter
}

func NewShell(r CommandRunner, path string, rep FailReporter) *Shell {
	if r == nil {
		r = ExecRunner{}
	}
	return &Shell{Runner: r, Path: path, Reporter: rep}
}

// Exec runs command to completion. Output on stderr is logged as an error
// but is not a failure. A failed execution is reported through the fail
// signal and never returned: ok is false and stdout holds whatever was
// captured before the failure.
func (s *Shell) Exec(ctx context.Context, command string) (stdout string, ok bool) {
	logger.Info("%s", command)

	out, err := s.Runner.Run(ctx, 0, Capture, s.Path, "-c", command)
	stdout = string(out.Stdout)
	logger.Raw(stdout)
	if stderr := strings.TrimSpace(string(out.Stderr)); stderr != "" {
		logger.LogError("%s", stderr)
	}

	if err != nil {
		s.Reporter.SetFailed(fmt.Errorf("%s: %w", errs.Msg(errs.CommandFailed, command), err))
		return stdout, false
	}
	return stdout, true
}

// Quote wraps arg in single quotes for a POSIX shell.
func Quote(arg string) string {
	if arg != "" && strings.IndexFunc(arg, needsQuote) < 0 {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_./:@+=,", r):
		return false
	}
	return true
}

package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MrSnakeDoc/imgcache/internal/utils"
	"github.com/google/uuid"
)

// GitHub talks to a GitHub Actions runner through environment variables,
// workflow commands and the GITHUB_OUTPUT / GITHUB_STATE command files.
type GitHub struct {
	Out    io.Writer
	Getenv func(string) string
	// Overrides take precedence over INPUT_* variables.
	Overrides map[string]string
	failed    bool
}

func NewGitHub() *GitHub {
	return &GitHub{Out: os.Stdout, Getenv: os.Getenv}
}

func inputEnvName(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

func (g *GitHub) GetInput(name string, opts *InputOptions) (string, error) {
	if v, ok := g.Overrides[name]; ok {
		return requireInput(name, v, opts)
	}
	return requireInput(name, g.Getenv(inputEnvName(name)), opts)
}

func (g *GitHub) GetState(name string) string {
	return g.Getenv("STATE_" + name)
}

func (g *GitHub) SetOutput(name, value string) error {
	if path := g.Getenv("GITHUB_OUTPUT"); path != "" {
		return appendFileCommand(path, name, value)
	}
	_, err := fmt.Fprintf(g.Out, "::set-output name=%s::%s\n", name, escapeData(value))
	return err
}

func (g *GitHub) SaveState(name, value string) error {
	if path := g.Getenv("GITHUB_STATE"); path != "" {
		return appendFileCommand(path, name, value)
	}
	_, err := fmt.Fprintf(g.Out, "::save-state name=%s::%s\n", name, escapeData(value))
	return err
}

func (g *GitHub) Notice(format string, args ...any) {
	_, _ = fmt.Fprintf(g.Out, "::notice::%s\n", escapeData(fmt.Sprintf(format, args...)))
}

func (g *GitHub) SetFailed(err error) {
	g.failed = true
	_, _ = fmt.Fprintf(g.Out, "::error::%s\n", escapeData(err.Error()))
}

func (g *GitHub) Failed() bool { return g.failed }

func appendFileCommand(path, name, value string) (err error) {
	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("unexpected input: value contains the delimiter %s", delimiter)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open command file %s: %w", path, err)
	}
	defer utils.Close(f)

	_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	return err
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

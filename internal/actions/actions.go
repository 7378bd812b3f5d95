// Package actions models the host CI system: step inputs, outputs, state
// shared between the pre and post phases, and the "mark pipeline failed"
// signal.
package actions

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/imgcache/internal/errs"
)

const (
	InputKey      = "key"
	InputReadOnly = "read-only"

	StateCacheHit   = "cache-hit"
	StateImagesList = "docker-images-list"
)

type InputOptions struct {
	Required bool
}

// Store is the cross-process key/value store of one pipeline run.
type Store interface {
	GetInput(name string, opts *InputOptions) (string, error)
	SetOutput(name, value string) error
	GetState(name string) string
	SaveState(name, value string) error
}

// Reporter carries the fail signal. SetFailed never stops the process;
// only the final pipeline status is affected.
type Reporter interface {
	Notice(format string, args ...any)
	SetFailed(err error)
	Failed() bool
}

type Pipeline interface {
	Store
	Reporter
}

// Clearer is implemented by stores that keep state on the local machine.
type Clearer interface {
	Clear() error
}

func requireInput(name, value string, opts *InputOptions) (string, error) {
	value = strings.TrimSpace(value)
	if opts != nil && opts.Required && value == "" {
		return "", fmt.Errorf("%s", errs.Msg(errs.MissingInput, name))
	}
	return value, nil
}

// FormatBool renders flags the way the state store expects to read them back.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func ParseBool(s string) bool {
	return strings.TrimSpace(s) == "true"
}

package errs

import (
	"errors"
	"fmt"
)

// Kind tells the caller whether a failure may stop the pipeline.
type Kind int

const (
	// Recoverable failures are reported through the fail signal and swallowed.
	Recoverable Kind = iota
	// Fatal failures propagate to the top-level handler.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Fatal:
		return "fatal"
	default:
		return "recoverable"
	}
}

// Error wraps an underlying failure with the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func NewFatal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Fatal, Op: op, Err: err}
}

func NewRecoverable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Recoverable, Op: op, Err: err}
}

// KindOf returns the kind of err. Untyped errors are treated as fatal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Fatal
}

func IsFatal(err error) bool {
	return err != nil && KindOf(err) == Fatal
}

type Code string

const (
	MissingInput     Code = "MISSING_INPUT"
	CommandFailed    Code = "COMMAND_FAILED"
	SaveImagesFailed Code = "SAVE_IMAGES_FAILED"
	UnknownBackend   Code = "UNKNOWN_BACKEND"
)

var messages = map[Code]string{
	MissingInput: `Input required and not supplied: %[1]s

Usage:
  - On GitHub Actions, set it under "with:" in the workflow step.
  - Locally, pass it as a flag:
      imgcache load --key my-cache-key`,

	CommandFailed: `Command failed: %[1]s`,

	SaveImagesFailed: `Failed to save Docker images to cache`,

	UnknownBackend: `Unknown state backend %[1]q

Supported backends:
  github   # GitHub Actions command files (default on Actions runners)
  file     # local state directory`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}

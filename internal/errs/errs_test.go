package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	base := errors.New("boom")

	assert.Nil(t, NewFatal("op", nil))
	assert.Nil(t, NewRecoverable("op", nil))

	fatal := NewFatal("restore cache", base)
	assert.True(t, IsFatal(fatal))
	assert.ErrorIs(t, fatal, base)
	assert.Equal(t, "restore cache: boom", fatal.Error())

	soft := fmt.Errorf("wrapped: %w", NewRecoverable("save", base))
	assert.False(t, IsFatal(soft))
	assert.Equal(t, Recoverable, KindOf(soft))

	assert.True(t, IsFatal(base))
	assert.False(t, IsFatal(nil))
}

func TestMsg(t *testing.T) {
	assert.Contains(t, Msg(MissingInput, "key"), "Input required and not supplied: key")
	assert.Equal(t, "Command failed: docker load", Msg(CommandFailed, "docker load"))
	assert.Equal(t, "NOPE", Msg(Code("NOPE")))
}

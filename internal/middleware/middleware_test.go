package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseMiddlewareChain_Order(t *testing.T) {
	var calls []string
	mw := func(name string) MiddlewareFunc {
		return func(cmd *cobra.Command, args []string, next func(*cobra.Command, []string) error) error {
			calls = append(calls, name)
			return next(cmd, args)
		}
	}

	factory := UseMiddlewareChain(mw("a"), mw("b"))(func() *cobra.Command {
		return &cobra.Command{
			Use:     "x",
			PreRunE: func(*cobra.Command, []string) error { calls = append(calls, "pre"); return nil },
			RunE:    func(*cobra.Command, []string) error { calls = append(calls, "run"); return nil },
		}
	})

	cmd := factory()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, []string{"a", "b", "pre", "run"}, calls)
}

func TestUseMiddlewareChain_StopsOnError(t *testing.T) {
	ran := false
	stop := func(*cobra.Command, []string, func(*cobra.Command, []string) error) error {
		return errors.New("stop")
	}
	cmd := UseMiddlewareChain(stop)(func() *cobra.Command {
		return &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { ran = true; return nil }}
	})()
	cmd.SetArgs([]string{})

	assert.EqualError(t, cmd.Execute(), "stop")
	assert.False(t, ran)
}

func TestGet(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.WithValue(context.Background(), CtxKeyEnv, &Env{}))

	env, err := Get[*Env](cmd, CtxKeyEnv)
	require.NoError(t, err)
	assert.NotNil(t, env)

	_, err = Get[*Env](cmd, CtxKeyConfig)
	assert.Error(t, err)

	_, err = Get[string](cmd, CtxKeyEnv)
	assert.ErrorContains(t, err, "wrong type")
}

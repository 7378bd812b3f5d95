package middleware

import (
	"errors"

	"github.com/MrSnakeDoc/imgcache/internal/errs"
	"github.com/MrSnakeDoc/imgcache/internal/logger"
)

var ErrLogged = errors.New("already logged")

func CodeError(code errs.Code, a ...any) error {
	msg := errs.Msg(code, a...)
	logger.LogError("%s", msg)
	return ErrLogged
}

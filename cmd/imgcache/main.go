package main

import (
	"errors"
	"os"

	cmd "github.com/MrSnakeDoc/imgcache/internal"
	"github.com/MrSnakeDoc/imgcache/internal/errs"
	"github.com/MrSnakeDoc/imgcache/internal/logger"
	"github.com/MrSnakeDoc/imgcache/internal/middleware"
)

func main() {
	if err := cmd.Execute(); err != nil {
		switch {
		case errors.Is(err, middleware.ErrLogged):
		case errs.IsFatal(err):
			logger.LogError("%s", err.Error())
		default:
			logger.Warn("%s", err.Error())
		}
		os.Exit(1)
	}
}

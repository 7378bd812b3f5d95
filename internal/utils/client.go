package utils

import (
	"io"

	"github.com/MrSnakeDoc/imgcache/internal/logger"
)

func Close(c io.Closer) {
	if err := c.Close(); err != nil {
		logger.LogError("close failed: %v", err)
	}
}

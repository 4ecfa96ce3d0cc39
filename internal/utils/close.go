package utils

import (
	"io"

	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
)

// CloseLogged closes c and logs any error under what.
// Returns true when c closed cleanly.
func CloseLogged(c io.Closer, what string, log logger.Logger) bool {
	if err := c.Close(); err != nil {
		log.Warn("failed to close",
			logger.String("resource", what),
			logger.Error(err))
		return false
	}
	return true
}

package utils

import (
	"io"

	"github.com/sageverse/tree/internal/logger"
)

// Close closes c and logs the outcome under name.
// Use for shutdown paths where a failed close is worth a line but not an exit.
func Close(c io.Closer, name string, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", name), logger.Error(err))
		return
	}
	log.Info("closed cleanly", logger.String("resource", name))
}

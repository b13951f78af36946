package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates the application logger. Level comes from LOG_LEVEL and
// defaults to info.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	}

	return logger
}

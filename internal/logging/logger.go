package logging

import (
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide logger. Development keeps the
// human-readable text format; every other environment emits JSON for
// log aggregation.
func NewLogger(logLevel, environment string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(parseLevel(logLevel))
	if environment != "development" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

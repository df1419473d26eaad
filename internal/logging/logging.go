// Package logging provides the shared logrus constructor used by every
// binary and service.
package logging

import "github.com/sirupsen/logrus"

// New returns a logger with full-timestamp text formatting. Debug level
// is enabled when debug is true, Info otherwise.
func New(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

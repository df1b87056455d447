package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared structured logger. Usable with defaults before
// InitLogger runs, so library code and tests never see a nil logger.
var Log = logrus.New()

func InitLogger() {
	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	// Log level can be changed depending on environment
	Log.SetLevel(logrus.InfoLevel)
}

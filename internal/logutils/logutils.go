package logutils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger from a textual level.
// Unknown levels fall back to info.
func InitLogger(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logrus.Infof("Log level set to %s", parsed)
}

package platform

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. Level comes from LOG_LEVEL
// (default info, debug outside production), format is JSON in production.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	env := os.Getenv("APP_ENV")
	if env == "production" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		l.SetLevel(logrus.DebugLevel)
	}

	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		l.SetLevel(lvl)
	}

	return l
}

// Logger returns the shared logger with the service field attached.
func Logger() *logrus.Entry {
	return Log.WithField("service", "youtube-monitor")
}

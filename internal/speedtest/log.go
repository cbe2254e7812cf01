package speedtest

import (
	"os"

	"github.com/sirupsen/logrus"
)

// log is the package-level logger. The start of each phase
// (ping/upload/download) is logged at Info; per-worker detail (request
// paths, connect and stream failures, recovered panics) is logged at
// Debug, toggled at runtime via SetDebug rather than gated at build time.
var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	l.Level = logrus.InfoLevel
	return l
}

// SetDebug toggles Debug-level logging for the worker/controller internals.
func SetDebug(on bool) {
	if on {
		log.Level = logrus.DebugLevel
	} else {
		log.Level = logrus.InfoLevel
	}
}

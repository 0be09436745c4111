package log

import (
	"os"

	"github.com/bitejournal/bitejournal/utils/dotenv"
	"github.com/bitejournal/bitejournal/utils/flag"
	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()

	if dotenv.IsProdEnv() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Send log to stderr, without json formatter in development for better
	// readability
	logger.SetOutput(os.Stderr)

	Log = logger.WithFields(
		logrus.Fields{"service": flag.ServiceName, "is_development": flag.IsDevelopment},
	)
}

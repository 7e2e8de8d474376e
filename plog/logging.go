// Package plog sets up the process-wide leveled logger, adapted from
// kryptco-kr's SetupLogging: same op/go-logging backend and formatter
// shape, renamed env var and prefix for this module.
package plog

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("")

var stderrFormat = logging.MustStringFormatter(
	`%{color}ptp ▶ %{message}%{color:reset}`,
)

// Setup installs a stderr-backed leveled logger. The level defaults to
// defaultLevel but is overridden by PLABBLE_LOG_LEVEL when set.
func Setup(prefix string, defaultLevel logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, prefix, 0)
	logging.SetFormatter(stderrFormat)

	leveled := logging.AddModuleLevel(backend)
	switch os.Getenv("PLABBLE_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, "")
	case "ERROR":
		leveled.SetLevel(logging.ERROR, "")
	case "WARNING":
		leveled.SetLevel(logging.WARNING, "")
	case "NOTICE":
		leveled.SetLevel(logging.NOTICE, "")
	case "INFO":
		leveled.SetLevel(logging.INFO, "")
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, "")
	default:
		leveled.SetLevel(defaultLevel, "")
	}

	logging.SetBackend(leveled)
	return log
}

// Log returns the package-wide logger, usable before Setup is called
// (it then logs at go-logging's default level).
func Log() *logging.Logger { return log }

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. InitLogger replaces it.
var Log = logrus.New()

func InitLogger(logLevel string) *logrus.Logger {
	return InitLoggerTo(os.Stdout, logLevel)
}

// InitLoggerTo builds a JSON logger writing to out and installs it as Log.
func InitLoggerTo(out io.Writer, logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.Out = out
	logger.SetLevel(getLogLevel(logLevel))
	logger.SetFormatter(&logrus.JSONFormatter{})
	Log = logger
	return logger
}

func getLogLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

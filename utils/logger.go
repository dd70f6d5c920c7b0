package utils

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

// InitLogger sets up text loggers: info and warnings to stdout, errors to
// stderr. ConfigureLogger adjusts them once the config is loaded.
func InitLogger() {
	InfoLogger = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(level)
	return l
}

// ConfigureLogger applies LOG_LEVEL and LOG_FORMAT ("text" or "json").
// The level only lowers or raises InfoLogger; ErrorLogger stays at error.
func ConfigureLogger(level, format string) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		InfoLogger.SetLevel(lvl)
	}

	if strings.EqualFold(format, "json") {
		for _, l := range []*logrus.Logger{InfoLogger, ErrorLogger} {
			l.SetFormatter(&logrus.JSONFormatter{})
		}
	}
	return nil
}

// SilenceLogger discards all output. Tests call it after InitLogger.
func SilenceLogger() {
	if InfoLogger == nil || ErrorLogger == nil {
		InitLogger()
	}
	InfoLogger.SetOutput(io.Discard)
	ErrorLogger.SetOutput(io.Discard)
}

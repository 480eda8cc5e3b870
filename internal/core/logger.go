package core

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger and installs it as the package default,
// so packages logging through charmbracelet/log's top-level functions share it.
func NewLogger(w io.Writer, cfg Log) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:           parseLevel(cfg.Level),
		Formatter:       parseFormatter(cfg.Format),
		ReportTimestamp: true,
		Prefix:          "todos",
	})

	log.SetDefault(logger)

	return logger
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func parseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

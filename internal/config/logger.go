package config

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger returns a timestamped logger writing to w. Unknown levels fall
// back to info.
func NewLogger(w io.Writer, prefix string, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           lvl,
	})
}

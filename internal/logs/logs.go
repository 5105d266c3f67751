// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logs configures the diagnostic logger. Status lines meant for
// the user are printed by the view package; this logger carries request
// details and failures for troubleshooting.
package logs

import (
	"fmt"
	"io"
	"strings"

	"github.com/op/go-logging"
)

const Module = "scholar-client"

var format = logging.MustStringFormatter(
	`%{time:2006-01-02T15:04:05.000} %{module} > %{level:.5s} - %{message}`,
)

// New returns the module logger writing to w at the named level
// (critical, error, warning, notice, info, debug). An empty level means
// warning.
func New(w io.Writer, level string) (*logging.Logger, error) {
	if level == "" {
		level = "warning"
	}
	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(lvl, "")

	log := logging.MustGetLogger(Module)
	log.SetBackend(leveled)
	return log, nil
}

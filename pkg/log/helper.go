package log

import (
	stdlog "log"
)

// MustInit wires the SQLite logger at dbPath, exiting the process on failure.
func MustInit(dbPath string) {
	if err := Init(dbPath); err != nil {
		stdlog.Fatalf("FATAL: failed to initialize logger: %v", err)
	}
}

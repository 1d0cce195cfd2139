package vqe

import (
	"os"

	"github.com/charmbracelet/log"
)

// defaultLogger is the diagnostic channel used when none is injected.
func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "vqe",
		ReportTimestamp: true,
	})
}

//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// shutdownSignals ends watch mode.
func shutdownSignals() []os.Signal {
	return []os.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGHUP}
}

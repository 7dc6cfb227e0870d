//go:build !windows

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// registerQuitHandler exits immediately on SIGQUIT, bypassing the dashboard's
// normal teardown. SIGINT and SIGTERM stay graceful; this is the escape
// hatch when the terminal is wedged.
func registerQuitHandler() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGQUIT)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr, "SIGQUIT: exiting immediately")
		os.Exit(1)
	}()
}
